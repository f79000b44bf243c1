package message

import (
	"errors"
	"fmt"
)

// ErrRaggedTable is returned when a table row width differs from its headers.
var ErrRaggedTable = errors.New("table row width does not match headers")

// AlertLevel is the severity of an alert attachment.
type AlertLevel string

// Alert levels.
const (
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
	AlertError   AlertLevel = "error"
	AlertSuccess AlertLevel = "success"
)

// ParseAlertLevel maps a wire value to an AlertLevel.
func ParseAlertLevel(s string) (AlertLevel, bool) {
	switch l := AlertLevel(s); l {
	case AlertInfo, AlertWarning, AlertError, AlertSuccess:
		return l, true
	}
	return "", false
}

// Attachment is the metadata union carried by a message. It is implemented
// only by Image, Table and Alert.
type Attachment interface {
	Kind() string
	attachment()
}

// Image references an uploaded picture on a user message.
type Image struct {
	URL string
}

// Kind implements Attachment.
func (Image) Kind() string { return "image" }
func (Image) attachment()  {}

// Table is a tabular attachment.
type Table struct {
	TableData
}

// Kind implements Attachment.
func (Table) Kind() string { return "table" }
func (Table) attachment()  {}

// Alert flags a reply with a severity.
type Alert struct {
	Level AlertLevel
}

// Kind implements Attachment.
func (Alert) Kind() string { return "alert" }
func (Alert) attachment()  {}

// TableData is a rectangular table with optional caption.
type TableData struct {
	Headers []string   `json:"headers" yaml:"headers"`
	Rows    [][]string `json:"rows" yaml:"rows"`
	Caption string     `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// Validate checks that every row is as wide as the headers.
func (t TableData) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), len(t.Headers), ErrRaggedTable)
		}
	}
	return nil
}

// Clone returns a deep copy of t.
func (t TableData) Clone() TableData {
	out := TableData{Caption: t.Caption}
	if t.Headers != nil {
		out.Headers = append([]string(nil), t.Headers...)
	}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = append([]string(nil), r...)
		}
	}
	return out
}

// Metadata is the flat record form of a message's attachments, used on the
// wire and in exports.
type Metadata struct {
	ImageURL   string     `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	TableData  *TableData `json:"tableData,omitempty" yaml:"tableData,omitempty"`
	AlertLevel AlertLevel `json:"alertLevel,omitempty" yaml:"alertLevel,omitempty"`

	ProcessingTime     float64 `json:"processingTime,omitempty" yaml:"processingTime,omitempty"`
	RetrievedDocsCount int     `json:"retrievedDocsCount,omitempty" yaml:"retrievedDocsCount,omitempty"`
}

// IsZero reports whether the record carries nothing.
func (md Metadata) IsZero() bool {
	return md.ImageURL == "" && md.TableData == nil && md.AlertLevel == "" &&
		md.ProcessingTime == 0 && md.RetrievedDocsCount == 0
}

// Metadata flattens the first attachment of each kind.
func (m Message) Metadata() Metadata {
	var md Metadata
	md.ImageURL = m.ImageURL()
	if t, ok := m.Table(); ok {
		t = t.Clone()
		md.TableData = &t
	}
	md.AlertLevel, _ = m.AlertLevel()
	md.ProcessingTime = m.ProcessingTime
	md.RetrievedDocsCount = m.RetrievedDocs
	return md
}

// Attachments expands a flat record back into the union form.
func (md Metadata) Attachments() []Attachment {
	var atts []Attachment
	if md.ImageURL != "" {
		atts = append(atts, Image{URL: md.ImageURL})
	}
	if md.TableData != nil && md.TableData.Validate() == nil {
		atts = append(atts, Table{TableData: md.TableData.Clone()})
	}
	if md.AlertLevel != "" {
		atts = append(atts, Alert{Level: md.AlertLevel})
	}
	return atts
}
