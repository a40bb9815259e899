/*
Copyright 2025 The Timer Service Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package timerid defines the opaque, time-ordered identifier types used
// throughout the timer service. Each identifier is its own nominal type so
// the compiler rejects mixing a TenantID where a ServiceCallID is expected,
// even though both are backed by the same UUID v7 representation.
package timerid

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// TenantID identifies the tenant that owns a timer.
type TenantID struct{ uuid.UUID }

// ServiceCallID identifies the service call a timer is waiting on.
type ServiceCallID struct{ uuid.UUID }

// EnvelopeID identifies a single published or consumed message envelope.
type EnvelopeID struct{ uuid.UUID }

// CorrelationID threads a causally-related chain of envelopes together.
type CorrelationID struct{ uuid.UUID }

// NewTenantID generates a new time-ordered TenantID.
func NewTenantID() (TenantID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return TenantID{}, fmt.Errorf("generate tenant id: %w", err)
	}
	return TenantID{id}, nil
}

// NewServiceCallID generates a new time-ordered ServiceCallID.
func NewServiceCallID() (ServiceCallID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return ServiceCallID{}, fmt.Errorf("generate service call id: %w", err)
	}
	return ServiceCallID{id}, nil
}

// NewEnvelopeID generates a new time-ordered EnvelopeID.
func NewEnvelopeID() (EnvelopeID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return EnvelopeID{}, fmt.Errorf("generate envelope id: %w", err)
	}
	return EnvelopeID{id}, nil
}

// NewCorrelationID generates a new time-ordered CorrelationID.
func NewCorrelationID() (CorrelationID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return CorrelationID{}, fmt.Errorf("generate correlation id: %w", err)
	}
	return CorrelationID{id}, nil
}

// ParseTenantID decodes a canonical UUID string into a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TenantID{}, fmt.Errorf("parse tenant id %q: %w", s, err)
	}
	return TenantID{id}, nil
}

// ParseServiceCallID decodes a canonical UUID string into a ServiceCallID.
func ParseServiceCallID(s string) (ServiceCallID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ServiceCallID{}, fmt.Errorf("parse service call id %q: %w", s, err)
	}
	return ServiceCallID{id}, nil
}

// ParseEnvelopeID decodes a canonical UUID string into an EnvelopeID.
func ParseEnvelopeID(s string) (EnvelopeID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EnvelopeID{}, fmt.Errorf("parse envelope id %q: %w", s, err)
	}
	return EnvelopeID{id}, nil
}

// ParseCorrelationID decodes a canonical UUID string into a CorrelationID.
func ParseCorrelationID(s string) (CorrelationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CorrelationID{}, fmt.Errorf("parse correlation id %q: %w", s, err)
	}
	return CorrelationID{id}, nil
}

func (id TenantID) String() string      { return id.UUID.String() }
func (id ServiceCallID) String() string { return id.UUID.String() }
func (id EnvelopeID) String() string    { return id.UUID.String() }
func (id CorrelationID) String() string { return id.UUID.String() }

func (id TenantID) MarshalJSON() ([]byte, error)      { return marshalJSON(id.UUID) }
func (id ServiceCallID) MarshalJSON() ([]byte, error) { return marshalJSON(id.UUID) }
func (id EnvelopeID) MarshalJSON() ([]byte, error)    { return marshalJSON(id.UUID) }
func (id CorrelationID) MarshalJSON() ([]byte, error) { return marshalJSON(id.UUID) }

func (id *TenantID) UnmarshalJSON(b []byte) error      { return unmarshalJSON(b, &id.UUID) }
func (id *ServiceCallID) UnmarshalJSON(b []byte) error { return unmarshalJSON(b, &id.UUID) }
func (id *EnvelopeID) UnmarshalJSON(b []byte) error    { return unmarshalJSON(b, &id.UUID) }
func (id *CorrelationID) UnmarshalJSON(b []byte) error { return unmarshalJSON(b, &id.UUID) }

func marshalJSON(id uuid.UUID) ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

func unmarshalJSON(b []byte, dst *uuid.UUID) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("unmarshal uuid %q: %w", s, err)
	}
	*dst = parsed
	return nil
}

// Value implements driver.Valuer so the ID types can be written directly as
// query parameters by database/sql-compatible drivers.
func (id TenantID) Value() (driver.Value, error)      { return id.UUID.String(), nil }
func (id ServiceCallID) Value() (driver.Value, error) { return id.UUID.String(), nil }
func (id CorrelationID) Value() (driver.Value, error) { return id.UUID.String(), nil }
func (id EnvelopeID) Value() (driver.Value, error)    { return id.UUID.String(), nil }

// Scan implements sql.Scanner so the ID types can be read directly out of
// query results by database/sql- and pgx-compatible drivers.
func (id *TenantID) Scan(src any) error      { return scan(src, &id.UUID) }
func (id *ServiceCallID) Scan(src any) error { return scan(src, &id.UUID) }
func (id *CorrelationID) Scan(src any) error { return scan(src, &id.UUID) }
func (id *EnvelopeID) Scan(src any) error    { return scan(src, &id.UUID) }

func scan(src any, dst *uuid.UUID) error {
	switch v := src.(type) {
	case nil:
		*dst = uuid.UUID{}
		return nil
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			return fmt.Errorf("scan uuid %q: %w", v, err)
		}
		*dst = parsed
		return nil
	case [16]byte:
		*dst = uuid.UUID(v)
		return nil
	case []byte:
		parsed, err := uuid.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("scan uuid %q: %w", v, err)
		}
		*dst = parsed
		return nil
	default:
		return fmt.Errorf("scan uuid: unsupported source type %T", src)
	}
}
