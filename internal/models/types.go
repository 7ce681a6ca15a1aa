
package models

import "time"

// VerseGroupDocument is one scraped text. Field order is the on-disk order.
// ChandasList is nil until the document is annotated; an annotated document
// with no verses keeps an empty list.
type VerseGroupDocument struct {
	Name        string   `json:"name"`
	Filename    string   `json:"filename"`
	URL         string   `json:"url"`
	Body        []string `json:"body"`
	ChandasList []string `json:"chandasList,omitzero"`
}

// Annotated reports whether the meter list is present and aligned with Body.
func (d *VerseGroupDocument) Annotated() bool {
	return d.ChandasList != nil && len(d.ChandasList) == len(d.Body)
}

// MeterResult is what a meter classifier returns for one text block.
// Candidates are ranked, the first being the primary guess.
type MeterResult struct {
	Matched    bool     `json:"matched"`
	Candidates []string `json:"candidates,omitempty"`
}

// Source is a listing page whose text selector enumerates verse groups.
type Source struct {
	Folder   string `json:"folder" yaml:"folder"`
	URL      string `json:"url" yaml:"url"`
	SelectID string `json:"selectId" yaml:"select_id"`
}

// Option is one entry of a page's text selector.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Location addresses a document in the corpus store.
type Location struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
}

func (l Location) String() string { return l.Folder + "/" + l.Filename }

type Failure struct {
	Location string `json:"location"`
	Error    string `json:"error"`
}

// Report summarises one scrape or annotation run.
type Report struct {
	RunID     string    `json:"runId"`
	Kind      string    `json:"kind"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
	Documents int       `json:"documents"`
	Verses    int       `json:"verses"`
	Resolved  int       `json:"resolved"`
	Failures  []Failure `json:"failures,omitempty"`
}
