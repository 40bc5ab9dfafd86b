package daktela

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Model names of the endpoints with dedicated clients.
const (
	ModelUsers            = "users"
	ModelTickets          = "tickets"
	ModelActivities       = "activities"
	ModelCampaignsRecords = "campaignsRecords"
)

// TicketStage is the workflow stage of a ticket.
type TicketStage string

// Ticket stages.
const (
	TicketStageOpen TicketStage = "OPEN"
	TicketStageWait TicketStage = "WAIT"
)

// TicketPriority is the priority of a ticket.
type TicketPriority string

// Ticket priorities.
const (
	TicketPriorityLow TicketPriority = "LOW"
)

// ActivityType is the channel of an activity.
type ActivityType string

// Activity types.
const (
	ActivityTypeEmail ActivityType = "EMAIL"
	ActivityTypeSMS   ActivityType = "SMS"
)

// ActivityAction is the state transition of an activity.
type ActivityAction string

// Activity actions.
const (
	ActivityActionOpen  ActivityAction = "OPEN"
	ActivityActionClose ActivityAction = "CLOSE"
)

// NumericID decodes identifiers sent either as numbers or numeric strings.
type NumericID int

// UnmarshalJSON accepts 42, "42" and null.
func (id *NumericID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0

		return nil
	}

	text := string(bytes.Trim(data, `"`))
	if text == "" {
		*id = 0

		return nil
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("%w: identifier %s", ErrInvalidArgument, data)
	}

	*id = NumericID(int(value))

	return nil
}

// String returns the identifier as used in endpoint paths.
func (id NumericID) String() string {
	return strconv.Itoa(int(id))
}

// MarshalJSON encodes the identifier as a number.
func (id NumericID) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(id))
}

// User is an account of the instance.
type User struct {
	Name      string `json:"name"      yaml:"name"`
	Title     string `json:"title"     yaml:"title"`
	Alias     string `json:"alias"     yaml:"alias"`
	Email     string `json:"email"     yaml:"email"`
	Extension string `json:"extension" yaml:"extension"`
	Deleted   bool   `json:"deleted"   yaml:"deleted"`
}

// Ticket is a customer support ticket. Its name is numeric.
type Ticket struct {
	Name     NumericID      `json:"name"     yaml:"name"`
	Title    string         `json:"title"    yaml:"title"`
	Stage    TicketStage    `json:"stage"    yaml:"stage"`
	Priority TicketPriority `json:"priority" yaml:"priority"`
	Category any            `json:"category" yaml:"category"`
	User     any            `json:"user"     yaml:"user"`
	Email    string         `json:"email"    yaml:"email"`
	Created  string         `json:"created"  yaml:"created"`
	Edited   string         `json:"edited"   yaml:"edited"`
}

// Activity is a single interaction, possibly linked to a ticket.
type Activity struct {
	Name   string         `json:"name"   yaml:"name"`
	Title  string         `json:"title"  yaml:"title"`
	Type   ActivityType   `json:"type"   yaml:"type"`
	Action ActivityAction `json:"action" yaml:"action"`
	Queue  any            `json:"queue"  yaml:"queue"`
	User   any            `json:"user"   yaml:"user"`
	Ticket *Ticket        `json:"ticket" yaml:"ticket"`
	Time   string         `json:"time"   yaml:"time"`
}

// CampaignRecord is a record of an outbound campaign.
type CampaignRecord struct {
	Name     string `json:"name"     yaml:"name"`
	Campaign any    `json:"campaign" yaml:"campaign"`
	Action   string `json:"action"   yaml:"action"`
	Contact  any    `json:"contact"  yaml:"contact"`
	User     any    `json:"user"     yaml:"user"`
	Created  string `json:"created"  yaml:"created"`
}

// DecodeOne decodes the payload of a single object read.
func DecodeOne[T any](env *Envelope) (*T, error) {
	var out T
	if err := env.Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DecodeList decodes the payload of a list read.
func DecodeList[T any](env *Envelope) ([]T, error) {
	if _, ok := env.List(); !ok && env.Data != nil {
		return nil, fmt.Errorf("%w: payload is not a list", ErrInvalidArgument)
	}

	out := []T{}
	if env.Data == nil {
		return out, nil
	}

	if err := env.Decode(&out); err != nil {
		return nil, err
	}

	return out, nil
}
