// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package i18n holds the admin UI strings in Telugu, Tamil, Hindi and
// English and picks a language for each request.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported UI language.
type Lang string

const (
	Telugu  Lang = "telugu"
	Tamil   Lang = "tamil"
	Hindi   Lang = "hindi"
	English Lang = "english"
)

// Default is used when nothing else matches.
const Default = Telugu

// CookieName remembers an explicit choice.
const CookieName = "preferred-language"

// supported is ordered to match tags.
var supported = []Lang{Telugu, Tamil, Hindi, English}

var tags = []language.Tag{language.Telugu, language.Tamil, language.Hindi, language.English}

var matcher = language.NewMatcher(tags)

var messages = map[string]map[Lang]string{
	"productAddSuccess": {
		Telugu:  "✅ ఉత్పత్తి విజయవంతంగా జోడించబడింది!",
		Tamil:   "✅ தயாரிப்பு வெற்றிகரமாக சேர்க்கப்பட்டது!",
		Hindi:   "✅ उत्पाद सफलतापूर्वक जोड़ा गया!",
		English: "✅ Product added successfully!",
	},
	"previewTitle": {
		Telugu:  "👀 ఇది ఎలా కనిపిస్తుంది:",
		Tamil:   "👀 இது எப்படி தெரியும்:",
		Hindi:   "👀 यह कैसा दिखेगा:",
		English: "👀 This is how it will look:",
	},
	"showInFeatured": {
		Telugu:  "ఈ ఉత్పత్తిని హోమ్‌పేజీలో చూపించు",
		Tamil:   "இந்த தயாரிப்பை முகப்பு பக்கத்தில் காட்டு",
		Hindi:   "इस उत्पाद को होमपेज पर दिखाएं",
		English: "Show this product on homepage",
	},
	"uploadImage": {
		Telugu:  "చిత్రాన్ని అప్‌లోడ్ చేయండి",
		Tamil:   "படத்தை பதிவேற்றவும்",
		Hindi:   "छवि अपलोड करें",
		English: "Upload Image",
	},
	"selectFromGallery": {
		Telugu:  "గ్యాలరీ నుండి ఎంచుకోండి",
		Tamil:   "கேலரியில் இருந்து தேர்ந்தெடுக்கவும்",
		Hindi:   "गैलरी से चुनें",
		English: "Select from Gallery",
	},
}

// Parse accepts a language name ("telugu") or a BCP 47 tag ("te-IN").
func Parse(s string) (Lang, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	for _, l := range supported {
		if string(l) == s {
			return l, true
		}
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return supported[idx], true
}

// Negotiate picks the language for r: the lang query parameter, then the
// preference cookie, then Accept-Language, then Default.
func Negotiate(r *http.Request) Lang {
	if l, ok := Parse(r.URL.Query().Get("lang")); ok {
		return l
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if l, ok := Parse(c.Value); ok {
			return l
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		prefs, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(prefs) > 0 {
			_, idx, conf := matcher.Match(prefs...)
			if conf != language.No {
				return supported[idx]
			}
		}
	}
	return Default
}

// T returns the message for key in lang, falling back to English and then
// to the key itself.
func T(lang Lang, key string) string {
	m, ok := messages[key]
	if !ok {
		return key
	}
	if s := m[lang]; s != "" {
		return s
	}
	if s := m[English]; s != "" {
		return s
	}
	return key
}

// Bundle returns every message in lang.
func Bundle(lang Lang) map[string]string {
	out := make(map[string]string, len(messages))
	for key := range messages {
		out[key] = T(lang, key)
	}
	return out
}
