package model

// CompanyCriteria process-wide eligibility configuration.
// Loaded once per job at pipeline start; mid-job writes never apply to rows
// already classified.
type CompanyCriteria struct {
	TurnoverCr   float64  `json:"turnoverCr"` // company turnover in Crores
	ProjectTypes []string `json:"projectTypes"`
}

// HasProjectType case-sensitive membership check against configured types
func (c CompanyCriteria) HasProjectType(tag string) bool {
	for _, pt := range c.ProjectTypes {
		if pt == tag {
			return true
		}
	}
	return false
}

// TagOverlap number of tags present in the configured project types
func (c CompanyCriteria) TagOverlap(tags []string) int {
	count := 0
	for _, tag := range tags {
		if c.HasProjectType(tag) {
			count++
		}
	}
	return count
}
