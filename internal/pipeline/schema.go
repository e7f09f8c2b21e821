package pipeline

// Canonical positions of the normalized record. Every stage addresses columns
// through these names.
const (
	SlotOverallPlace = iota
	SlotAgeGroupPlace
	SlotBib
	SlotLastName
	SlotFirstName1
	SlotFirstName2
	SlotBirthYear
	SlotCategory
	SlotFinishTime
	SlotCompetitionYear

	CanonicalWidth
)

const (
	// SlotGender reuses the category column once the gender code is inferred.
	SlotGender = SlotCategory

	// AssembledDataWidth is the number of data columns taken before the year.
	AssembledDataWidth = SlotCompetitionYear

	// IdentityWidth is the number of columns the identity cell explodes into.
	IdentityWidth = SlotBirthYear

	// DriftMinIndex: year-like cells past this index signal a missing
	// optional field.
	DriftMinIndex = SlotFirstName1

	// TrailingScanStart is where the time and year scans begin.
	TrailingScanStart = SlotCategory

	rankSlots = SlotBib + 1
	nameSlots = IdentityWidth - rankSlots
)

// FieldNames are the export headers in canonical order.
var FieldNames = [CanonicalWidth]string{
	"Gesamt Platz",
	"Platz AK",
	"Startnummer",
	"Nachname",
	"Vorname 1",
	"Vorname 2",
	"Jahrgang",
	"Geschlecht",
	"Zeit",
	"Jahr",
}

const TimeSentinel = "00:00:00"
