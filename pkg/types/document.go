// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DocumentMetadata holds the fetched record for one PubMed abstract.
// Year and FirstAuthor are optional; zero values mean unknown.
type DocumentMetadata struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the abstract text the extractors analyze.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// FirstAuthor is the first author's last name, used to approximate
	// independent research groups. Empty when unknown.
	FirstAuthor string `json:"first_author,omitempty" yaml:"first_author,omitempty"`
}

// SourceKey returns the identifier used to count independent contributing
// groups: the first author when known, otherwise the PMID itself.
func (d DocumentMetadata) SourceKey() string {
	if d.FirstAuthor != "" {
		return d.FirstAuthor
	}
	return d.PMID
}
