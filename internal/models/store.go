package models

import (
	"errors"
	"fmt"
	"time"
)

// DayOfWeek names a weekday the way the marketplace backend does
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// Weekdays lists the days in display order
var Weekdays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// BusinessHoursPerDay is the only business hours mode the backend accepts
const BusinessHoursPerDay = "PER_DAY"

// TimeSlot is an opening window in HH:MM. Both fields empty means closed.
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Closed reports whether the slot marks a day off
func (t TimeSlot) Closed() bool {
	return t.StartTime == "" && t.EndTime == ""
}

type BusinessHours struct {
	Mode      string                 `json:"mode"`
	TimeSlots map[DayOfWeek]TimeSlot `json:"timeSlots"`
}

// WorkCondition is whether the store is currently taking orders
type WorkCondition string

const (
	WorkConditionOpen  WorkCondition = "OPEN"
	WorkConditionClose WorkCondition = "CLOSE"
)

func (w WorkCondition) Valid() bool {
	return w == WorkConditionOpen || w == WorkConditionClose
}

// StoreStatus is whether the store is exposed to customers
type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "ACTIVE"
	StoreStatusInactive StoreStatus = "INACTIVE"
)

func (s StoreStatus) Valid() bool {
	return s == StoreStatusActive || s == StoreStatusInactive
}

// StoreInfo is the merchant's store profile as edited in the console
type StoreInfo struct {
	StoreID              *int64                 `json:"storeId,omitempty"`
	Name                 string                 `json:"name"`
	Detailed             string                 `json:"detailed"`
	Tel                  string                 `json:"tel"`
	BizNumber            string                 `json:"bizNumber"`
	AddressCode          string                 `json:"addressCode"`
	AddressDetail        string                 `json:"addressDetail"`
	Latitude             float64                `json:"latitude"`
	Longitude            float64                `json:"longitude"`
	Jibun                string                 `json:"jibun"`
	Road                 string                 `json:"road"`
	MinOrderPrice        int                    `json:"minOrderPrice"`
	DeliveryType         string                 `json:"deliveryType"`
	DeliveryTimeEstimate int                    `json:"deliveryTimeEstimate"`
	DeliveryPickup       int                    `json:"deliveryPickup"`
	BusinessHoursMode    string                 `json:"businessHoursMode"`
	TimeSlots            map[DayOfWeek]TimeSlot `json:"timeSlots"`
	WorkCondition        WorkCondition          `json:"workCondition"`
	Status               StoreStatus            `json:"status"`
}

// StoreInfoPatch carries a partial update. Nil fields are left untouched.
type StoreInfoPatch struct {
	Name                 *string                `json:"name,omitempty"`
	Detailed             *string                `json:"detailed,omitempty"`
	Tel                  *string                `json:"tel,omitempty"`
	BizNumber            *string                `json:"bizNumber,omitempty"`
	AddressCode          *string                `json:"addressCode,omitempty"`
	AddressDetail        *string                `json:"addressDetail,omitempty"`
	Latitude             *float64               `json:"latitude,omitempty"`
	Longitude            *float64               `json:"longitude,omitempty"`
	Jibun                *string                `json:"jibun,omitempty"`
	Road                 *string                `json:"road,omitempty"`
	MinOrderPrice        *int                   `json:"minOrderPrice,omitempty"`
	DeliveryType         *string                `json:"deliveryType,omitempty"`
	DeliveryTimeEstimate *int                   `json:"deliveryTimeEstimate,omitempty"`
	DeliveryPickup       *int                   `json:"deliveryPickup,omitempty"`
	BusinessHoursMode    *string                `json:"businessHoursMode,omitempty"`
	TimeSlots            map[DayOfWeek]TimeSlot `json:"timeSlots,omitempty"`
	WorkCondition        *WorkCondition         `json:"workCondition,omitempty"`
	Status               *StoreStatus           `json:"status,omitempty"`
}

// RegisterStoreResponse is what the backend returns for a new store
type RegisterStoreResponse struct {
	StoreID int64  `json:"storeId"`
	Name    string `json:"name,omitempty"`
}

type WorkConditionRequest struct {
	WorkCondition WorkCondition `json:"workCondition" binding:"required"`
}

type ExposureRequest struct {
	Status StoreStatus `json:"status" binding:"required"`
}

var (
	ErrInvalidMode   = errors.New("business hours mode must be PER_DAY")
	ErrUnknownDay    = errors.New("unknown day of week")
	ErrInvalidTime   = errors.New("time must be HH:MM in 24h format")
	ErrHalfClosedDay = errors.New("start and end time must both be set or both be empty")
	ErrEmptyWindow   = errors.New("start and end time must differ")
)

// ValidDay reports whether d is one of the seven weekdays
func ValidDay(d DayOfWeek) bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Validate checks every slot. An empty mode is treated as PER_DAY.
func (b *BusinessHours) Validate() error {
	if b.Mode == "" {
		b.Mode = BusinessHoursPerDay
	}
	if b.Mode != BusinessHoursPerDay {
		return ErrInvalidMode
	}
	for day, slot := range b.TimeSlots {
		if !ValidDay(day) {
			return fmt.Errorf("%w: %s", ErrUnknownDay, day)
		}
		if slot.Closed() {
			continue
		}
		if slot.StartTime == "" || slot.EndTime == "" {
			return fmt.Errorf("%s: %w", day, ErrHalfClosedDay)
		}
		if !validClock(slot.StartTime) || !validClock(slot.EndTime) {
			return fmt.Errorf("%s: %w", day, ErrInvalidTime)
		}
		// An end before the start closes after midnight
		if slot.StartTime == slot.EndTime {
			return fmt.Errorf("%s: %w", day, ErrEmptyWindow)
		}
	}
	return nil
}
