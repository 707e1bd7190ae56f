package domain

import (
	"strings"
	"time"
)

// HarvestJob is the queue-resident request to harvest one or more card sets
type HarvestJob struct {
	CardSetNames []string `json:"cardSetNames"`
	CardSetCode  string   `json:"cardSetCode"`
	SocketID     *string  `json:"socketId,omitempty"`
}

// Validate checks that the job carries something to harvest
func (j HarvestJob) Validate() error {
	if len(j.CardSetNames) == 0 {
		return NewError(ErrorKindContract, "", ErrEmptyHarvestJob)
	}
	for _, name := range j.CardSetNames {
		if strings.TrimSpace(name) == "" {
			return NewError(ErrorKindContract, "", ErrEmptyHarvestJob)
		}
	}
	return nil
}

// JobFinished is published once per harvested set name when a job drains
type JobFinished struct {
	CollectionName string  `json:"collectionName"`
	CardSetCode    string  `json:"cardSetCode"`
	SocketID       *string `json:"socketId,omitempty"`
}

// EditionRow is one parsed row of a set's edition table
type EditionRow struct {
	CardNumber     string            `json:"cardNumber"`
	SetNumber      string            `json:"setNumber,omitempty"`
	Name           string            `json:"name"`
	Rarity         string            `json:"rarity"`
	Category       string            `json:"category,omitempty"`
	CollectionName string            `json:"collectionName"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// Code returns the edition code, preferring the card number over the raw set number
func (r EditionRow) Code() string {
	if r.CardNumber != "" {
		return r.CardNumber
	}
	return r.SetNumber
}

// Card is the card metadata returned by the card info provider
type Card struct {
	ExternalID        int64
	Name              string
	Type              string
	FrameType         string
	Description       string
	Race              string
	Attribute         *string
	Archetype         *string
	ImageURL          *string
	Attack            *int
	Defense           *int
	Level             *int
	LinkRating        *int
	LinkMarkers       []string
	PendulumText      *string
	MonsterText       *string
	HumanReadableType string
}

// EditionCandidate is an edition mapped from a parsed row, before validation
type EditionCandidate struct {
	CardNumber string   `json:"cardNumber"`
	SetName    string   `json:"setName"`
	Name       string   `json:"name"`
	Rarities   []string `json:"rarities"`
	CardID     int64    `json:"cardId"`
}

// MissingFields lists the required fields that are empty on the candidate
func (c EditionCandidate) MissingFields() []string {
	var missing []string
	if c.CardNumber == "" {
		missing = append(missing, "cardNumber")
	}
	if c.SetName == "" {
		missing = append(missing, "setName")
	}
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if len(c.Rarities) == 0 {
		missing = append(missing, "rarities")
	}
	if c.CardID == 0 {
		missing = append(missing, "cardId")
	}
	return missing
}

// InvalidEdition is a candidate that failed validation and was not persisted
type InvalidEdition struct {
	Candidate     EditionCandidate `json:"candidate"`
	Row           EditionRow       `json:"row"`
	MissingFields []string         `json:"missingFields"`
	RecordedAt    time.Time        `json:"recordedAt"`
}

// FailedSet captures a set that failed harvesting, for manual diagnosis
type FailedSet struct {
	SetName    string       `json:"setName"`
	Kind       ErrorKind    `json:"kind"`
	Error      string       `json:"error"`
	Rows       []EditionRow `json:"rows"`
	RecordedAt time.Time    `json:"recordedAt"`
}
