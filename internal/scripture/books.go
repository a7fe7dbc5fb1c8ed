package scripture

import "github.com/gosimple/slug"

var canonicalBooks = []string{
	"Genesis", "Exodus", "Leviticus", "Numbers", "Deuteronomy",
	"Joshua", "Judges", "Ruth", "1 Samuel", "2 Samuel",
	"1 Kings", "2 Kings", "1 Chronicles", "2 Chronicles", "Ezra",
	"Nehemiah", "Esther", "Job", "Psalms", "Proverbs",
	"Ecclesiastes", "Song of Solomon", "Isaiah", "Jeremiah", "Lamentations",
	"Ezekiel", "Daniel", "Hosea", "Joel", "Amos",
	"Obadiah", "Jonah", "Micah", "Nahum", "Habakkuk",
	"Zephaniah", "Haggai", "Zechariah", "Malachi",
	"Matthew", "Mark", "Luke", "John", "Acts",
	"Romans", "1 Corinthians", "2 Corinthians", "Galatians", "Ephesians",
	"Philippians", "Colossians", "1 Thessalonians", "2 Thessalonians", "1 Timothy",
	"2 Timothy", "Titus", "Philemon", "Hebrews", "James",
	"1 Peter", "2 Peter", "1 John", "2 John", "3 John",
	"Jude", "Revelation",
}

// Alternate spellings, keyed by slug.
var bookAliases = map[string]string{
	"gen":           "Genesis",
	"ex":            "Exodus",
	"exod":          "Exodus",
	"lev":           "Leviticus",
	"num":           "Numbers",
	"deut":          "Deuteronomy",
	"psalm":         "Psalms",
	"ps":            "Psalms",
	"prov":          "Proverbs",
	"eccl":          "Ecclesiastes",
	"song-of-songs": "Song of Solomon",
	"song":          "Song of Solomon",
	"canticles":     "Song of Solomon",
	"isa":           "Isaiah",
	"jer":           "Jeremiah",
	"ezek":          "Ezekiel",
	"dan":           "Daniel",
	"matt":          "Matthew",
	"mt":            "Matthew",
	"mk":            "Mark",
	"lk":            "Luke",
	"jn":            "John",
	"rom":           "Romans",
	"1-cor":         "1 Corinthians",
	"2-cor":         "2 Corinthians",
	"gal":           "Galatians",
	"eph":           "Ephesians",
	"phil":          "Philippians",
	"col":           "Colossians",
	"heb":           "Hebrews",
	"1-jn":          "1 John",
	"2-jn":          "2 John",
	"3-jn":          "3 John",
	"rev":           "Revelation",
	"revelations":   "Revelation",
}

var booksBySlug = func() map[string]string {
	m := make(map[string]string, len(canonicalBooks)+len(bookAliases))
	for _, name := range canonicalBooks {
		m[slug.Make(name)] = name
	}
	for key, name := range bookAliases {
		m[key] = name
	}
	return m
}()

// normalizeBook maps any casing, spacing or known abbreviation of a book
// to its canonical name. Unknown books are returned unchanged.
func normalizeBook(book string) string {
	if name, ok := booksBySlug[slug.Make(book)]; ok {
		return name
	}
	return book
}
