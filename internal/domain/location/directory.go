package location

import "sort"

// Region is a county sub-division mapped to one upstream CWA location identifier.
type Region struct {
	Name string
	ID   string
}

// Directory maps a county name to its ordered regions.
// It is never mutated after construction, so concurrent reads need no locking.
type Directory struct {
	counties map[string][]Region
}

// NewDirectory builds a directory from a county table. The table is copied.
func NewDirectory(table map[string][]Region) *Directory {
	counties := make(map[string][]Region, len(table))
	for county, regions := range table {
		counties[county] = append([]Region(nil), regions...)
	}
	return &Directory{counties: counties}
}

// Default returns the directory of every coastal county with a tide forecast.
func Default() *Directory {
	return NewDirectory(defaultTable)
}

// Regions returns the regions of county in directory order, or nil for an unknown county.
func (d *Directory) Regions(county string) []Region {
	regions, ok := d.counties[county]
	if !ok {
		return nil
	}
	return append([]Region(nil), regions...)
}

// Has reports whether county is part of the directory.
func (d *Directory) Has(county string) bool {
	_, ok := d.counties[county]
	return ok
}

// Counties returns all county names sorted lexically.
func (d *Directory) Counties() []string {
	names := make([]string, 0, len(d.counties))
	for county := range d.counties {
		names = append(names, county)
	}
	sort.Strings(names)
	return names
}

// Region looks up a region of county by its identifier.
func (d *Directory) Region(county, id string) (Region, bool) {
	for _, r := range d.counties[county] {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// FindRegion searches every county for the region identifier.
// Counties are visited in sorted order so duplicate identifiers resolve deterministically.
func (d *Directory) FindRegion(id string) (string, Region, bool) {
	for _, county := range d.Counties() {
		if r, ok := d.Region(county, id); ok {
			return county, r, true
		}
	}
	return "", Region{}, false
}
