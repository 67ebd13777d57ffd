package models

import "time"

// Mail direction. INCOMING entries record received correspondence,
// OUTGOING entries record sent correspondence.
const (
	MailIncoming = "INCOMING"
	MailOutgoing = "OUTGOING"
)

// Mail is one archive entry. The ID is generated by the client (UUID) and
// is the sole identity key; ReferenceNumber is the human-facing letter
// number and is not unique.
type Mail struct {
	ID string `gorm:"primaryKey" json:"id" validate:"required"`

	// Stored as text on purpose: the legacy spreadsheet silently reformatted
	// dates and stripped leading zeros from reference numbers.
	Date            string `gorm:"type:text;not null" json:"date" validate:"required,datetime=2006-01-02"`
	ReferenceNumber string `gorm:"type:text;not null" json:"referenceNumber" validate:"required"`

	Recipient   string `gorm:"not null" json:"recipient" validate:"required"`
	Subject     string `gorm:"not null" json:"subject" validate:"required"`
	RelatedTo   string `json:"relatedTo"`
	ArchiveCode string `gorm:"index" json:"archiveCode"`
	Type        string `gorm:"not null;index" json:"type" validate:"required,oneof=INCOMING OUTGOING"`
	FileLink    string `json:"fileLink"`
	Description string `json:"description"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// FilePayload is an optional base64-encoded attachment sent alongside a
// saveMail request.
type FilePayload struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content"`
}
