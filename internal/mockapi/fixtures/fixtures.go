// Package fixtures holds the embedded seed data for the development API.
// Appointment and invoice dates in the seed are relative offsets so the
// calendar and dashboard stay populated no matter when the stub starts.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var embedded []byte

type User struct {
	ID        string   `yaml:"id"`
	FirstName string   `yaml:"first_name"`
	LastName  string   `yaml:"last_name"`
	Email     string   `yaml:"email"`
	Phone     string   `yaml:"phone"`
	Password  string   `yaml:"password"` // dev-only plaintext, hashed at load
	Roles     []string `yaml:"roles"`
}

type OpeningHours struct {
	Weekday int    `yaml:"weekday"`
	Opens   string `yaml:"opens"`
	Closes  string `yaml:"closes"`
	Closed  bool   `yaml:"closed"`
}

type Clinic struct {
	Name         string         `yaml:"name"`
	AddressLine1 string         `yaml:"address_line1"`
	AddressLine2 string         `yaml:"address_line2"`
	City         string         `yaml:"city"`
	ZipCode      string         `yaml:"zip_code"`
	Phone        string         `yaml:"phone"`
	Email        string         `yaml:"email"`
	OpeningHours []OpeningHours `yaml:"opening_hours"`
}

type AppointmentType struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Color           string `yaml:"color"`
	DurationMinutes int    `yaml:"default_duration_minutes"`
	Active          bool   `yaml:"active"`
}

type Client struct {
	ID             string `yaml:"id"`
	FirstName      string `yaml:"first_name"`
	LastName       string `yaml:"last_name"`
	Email          string `yaml:"email"`
	PhonePrimary   string `yaml:"phone_primary"`
	PhoneSecondary string `yaml:"phone_secondary"`
	Street         string `yaml:"street"`
	City           string `yaml:"city"`
	ZipCode        string `yaml:"zip_code"`
	Notes          string `yaml:"notes"`
}

type Patient struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Species     string     `yaml:"species"`
	Breed       string     `yaml:"breed"`
	Sex         string     `yaml:"sex"`
	DateOfBirth *time.Time `yaml:"date_of_birth"`
	Status      string     `yaml:"status"`
	OwnerID     string     `yaml:"owner_id"`
	Notes       string     `yaml:"notes"`
}

// Appointment carries a relative schedule: day_offset days from load time,
// starting at start_clock local time.
type Appointment struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	PatientID       string `yaml:"patient_id"`
	TypeID          string `yaml:"appointment_type_id"`
	Status          string `yaml:"status"`
	DayOffset       int    `yaml:"day_offset"`
	StartClock      string `yaml:"start_clock"` // 15:04
	DurationMinutes int    `yaml:"duration_minutes"`
}

// Invoice is issued month_offset months plus day_offset days before load
// time.
type Invoice struct {
	ID          string `yaml:"id"`
	ClientID    string `yaml:"client_id"`
	AmountCents int64  `yaml:"amount_cents"`
	Status      string `yaml:"status"` // open | paid
	MonthOffset int    `yaml:"month_offset"`
	DayOffset   int    `yaml:"day_offset"`
}

type Seed struct {
	Users            []User            `yaml:"users"`
	Clinic           Clinic            `yaml:"clinic"`
	AppointmentTypes []AppointmentType `yaml:"appointment_types"`
	Clients          []Client          `yaml:"clients"`
	Patients         []Patient         `yaml:"patients"`
	Appointments     []Appointment     `yaml:"appointments"`
	Invoices         []Invoice         `yaml:"invoices"`
}

// Load returns the embedded seed, or the file at path when one is given.
func Load(path string) (Seed, error) {
	raw := embedded
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return Seed{}, fmt.Errorf("read seed file: %w", err)
		}
	}

	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	if len(seed.Users) == 0 {
		return Seed{}, fmt.Errorf("seed has no users")
	}
	return seed, nil
}
