package catalog

// aliases folds renamed or merged identifiers onto the id the stats source reports
var aliases = map[string]string{
	"alolan_ninetales":  "ninetales",
	"galarian_rapidash": "rapidash",
	"alcremie":          "mawhip",
}

// CanonicalID returns the canonical join key for id
func CanonicalID(id string) string {
	if canonical, ok := aliases[id]; ok {
		return canonical
	}
	return id
}

// Normalize rewrites each record's ID through the alias table and indexes the
// result by ID. When two records collapse onto the same ID the later one wins.
func Normalize(records []Record) map[string]Record {
	index := make(map[string]Record, len(records))
	for _, r := range records {
		r.ID = CanonicalID(r.ID)
		index[r.ID] = r
	}
	return index
}
