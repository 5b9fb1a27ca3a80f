package storage

import "testing"

func TestNewWithoutCredentials(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "products", "")
	if err != nil || c != nil {
		t.Fatalf("New without endpoint = %v, %v; want nil, nil", c, err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New("http://localhost:9000", "us-east-1", "k", "s", "", ""); err == nil {
		t.Fatal("expected error for empty bucket")
	}
}

func TestFileURLAndExtractKey(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		key       string
		wantURL   string
	}{
		{"path style", "", "products/2026/05/a.jpg", "http://minio:9000/sarees/products/2026/05/a.jpg"},
		{"cdn", "https://cdn.tulasisilks.in/", "products/2026/05/b.webp", "https://cdn.tulasisilks.in/products/2026/05/b.webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("http://minio:9000/", "us-east-1", "key", "secret", "sarees", tt.publicURL)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got := c.FileURL(tt.key)
			if got != tt.wantURL {
				t.Errorf("FileURL = %q, want %q", got, tt.wantURL)
			}
			key, ok := c.ExtractKey(got)
			if !ok || key != tt.key {
				t.Errorf("ExtractKey(%q) = %q, %v", got, key, ok)
			}
		})
	}
}

func TestExtractKeyForeignURL(t *testing.T) {
	c, _ := New("http://minio:9000", "us-east-1", "key", "secret", "sarees", "")
	if _, ok := c.ExtractKey("https://res.cloudinary.com/demo/image/upload/x.jpg"); ok {
		t.Error("foreign URL should not match")
	}
	if _, ok := c.ExtractKey("http://minio:9000/sarees/"); ok {
		t.Error("bare bucket URL should not match")
	}
}
