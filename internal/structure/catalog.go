package structure

// canonicalOrder lists the books of the catholic canon in reading order,
// Old Testament first. It fixes the order of the generated catalog.
var canonicalOrder = []string{
	"Gen", "Ex", "Lev", "Num", "Dtn", "Jos", "Ri", "Rut", "1Sam", "2Sam", "1Koen", "2Koen",
	"1Chr", "2Chr", "Esra", "Neh", "Tob", "Jdt", "Est", "1Makk", "2Makk", "Ijob", "Ps",
	"Spr", "Koh", "Hld", "Weish", "Sir", "Jes", "Jer", "Klgl", "Bar", "Ez", "Dan", "Hos",
	"Joel", "Am", "Obd", "Jona", "Mi", "Nah", "Hab", "Zef", "Hag", "Sach", "Mal",
	"Mt", "Mk", "Lk", "Joh", "Apg", "Roem", "1Kor", "2Kor", "Gal", "Eph", "Phil", "Kol",
	"1Thess", "2Thess", "1Tim", "2Tim", "Tit", "Phlm", "Hebr", "Jak", "1Petr", "2Petr",
	"1Joh", "2Joh", "3Joh", "Jud", "Offb",
}

// bookNames maps directory abbreviations to full German book names.
var bookNames = map[string]string{
	"Gen": "Genesis", "Ex": "Exodus", "Lev": "Levitikus", "Num": "Numeri", "Dtn": "Deuteronomium",
	"Jos": "Josua", "Ri": "Richter", "Rut": "Rut", "1Sam": "1. Samuel", "2Sam": "2. Samuel",
	"1Koen": "1. Könige", "2Koen": "2. Könige", "1Chr": "1. Chronik", "2Chr": "2. Chronik",
	"Esra": "Esra", "Neh": "Nehemia", "Tob": "Tobit", "Jdt": "Judit", "Est": "Ester",
	"1Makk": "1. Makkabäer", "2Makk": "2. Makkabäer", "Ijob": "Ijob", "Ps": "Psalmen",
	"Spr": "Sprichwörter", "Koh": "Kohelet", "Hld": "Hoheslied", "Weish": "Weisheit",
	"Sir": "Jesus Sirach", "Jes": "Jesaja", "Jer": "Jeremia", "Klgl": "Klagelieder",
	"Bar": "Baruch", "Ez": "Ezechiel", "Dan": "Daniel", "Hos": "Hosea", "Joel": "Joel",
	"Am": "Amos", "Obd": "Obadja", "Jona": "Jona", "Mi": "Micha", "Nah": "Nahum",
	"Hab": "Habakuk", "Zef": "Zefanja", "Hag": "Haggai", "Sach": "Sacharja", "Mal": "Maleachi",
	"Mt": "Matthäus", "Mk": "Markus", "Lk": "Lukas", "Joh": "Johannes", "Apg": "Apostelgeschichte",
	"Roem": "Römer", "1Kor": "1. Korinther", "2Kor": "2. Korinther", "Gal": "Galater",
	"Eph": "Epheser", "Phil": "Philipper", "Kol": "Kolosser", "1Thess": "1. Thessalonicher",
	"2Thess": "2. Thessalonicher", "1Tim": "1. Timotheus", "2Tim": "2. Timotheus",
	"Tit": "Titus", "Phlm": "Philemon", "Hebr": "Hebräer", "Jak": "Jakobus",
	"1Petr": "1. Petrus", "2Petr": "2. Petrus", "1Joh": "1. Johannes", "2Joh": "2. Johannes",
	"3Joh": "3. Johannes", "Jud": "Judas", "Offb": "Offenbarung",
}

// BookName resolves an abbreviation to its full name, falling back to the
// abbreviation itself.
func BookName(abbreviation string) string {
	if name, ok := bookNames[abbreviation]; ok {
		return name
	}
	return abbreviation
}
