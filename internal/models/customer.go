// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"
)

// CustomerStatus is the admin-controlled state of a customer account.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
	CustomerBlocked  CustomerStatus = "blocked"
)

// ParseStatusFilter reads the status filter of a customer listing. An empty
// value and "all" return "", which matches every customer.
func ParseStatusFilter(s string) (CustomerStatus, error) {
	switch st := CustomerStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case "", "all":
		return "", nil
	case CustomerActive, CustomerInactive, CustomerBlocked:
		return st, nil
	}
	return "", fmt.Errorf("unknown customer status %q", s)
}

// Customer is a storefront shopper recorded on login.
type Customer struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone,omitempty"`
	Orders     int            `json:"orders"`
	Status     CustomerStatus `json:"status"`
	LastLogin  time.Time      `json:"lastLogin"`
	JoinDate   time.Time      `json:"joinDate"`
	TotalSpent float64        `json:"totalSpent"`
}

// Matches reports whether the customer's name, email or phone contains the
// lower-cased query.
func (c *Customer) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Email), q) ||
		strings.Contains(strings.ToLower(c.Phone), q)
}

// HasStatus reports whether the customer is in status. The empty status
// matches everyone.
func (c *Customer) HasStatus(status CustomerStatus) bool {
	return status == "" || c.Status == status
}

// ToggledStatus returns the status after an admin toggle: active customers
// become blocked, everyone else becomes active.
func (c *Customer) ToggledStatus() CustomerStatus {
	if c.Status == CustomerActive {
		return CustomerBlocked
	}
	return CustomerActive
}
