package dto

// Region identifies a water utility issuer, refined by layout variant
// where one issuer prints more than one bill layout.
type Region string

const (
	RegionSelangor Region = "Selangor"
	// RegionSelangor2 is the Air Selangor dual-account layout
	// (Baharu + Lama account numbers on the same bill).
	RegionSelangor2      Region = "Selangor2"
	RegionMelaka         Region = "Melaka"
	RegionNegeriSembilan Region = "Negeri-Sembilan"
	RegionKedah          Region = "Kedah"
	RegionJohor          Region = "Johor"
	RegionUnknown        Region = "unknown"
)

// Design resolution every template is authored against. Rendered pages
// are resampled to this size, and template rectangles are scaled by
// (actualWidth/DesignWidth, actualHeight/DesignHeight) before cropping.
const (
	DesignWidth  = 2481
	DesignHeight = 3509
)

// AddressField is the reserved template field whose OCR line count
// drives the vertical offset applied to the fields below it.
const AddressField = "Address"

// Rect is a template rectangle in design-resolution pixel coordinates.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Template maps field names to rectangles for one (region, variant) key.
// An empty template is valid and means "no fields extracted".
type Template map[string]Rect

// ExtractionResult holds the raw per-field OCR output for one document
// under one template, plus the values derived from it.
type ExtractionResult struct {
	FileName     string
	Region       Region
	Address      string
	AddressLines int
	OffsetY      int
	TempohBil    string
	BilanganHari string
	Fields       map[string]string
}

// BillRecord is the canonical output schema. Every region's field set is
// coerced into it; fields the region does not expose carry their
// documented default, never an omission.
type BillRecord struct {
	FileName           string `json:"File_Name"`
	Region             string `json:"Region"`
	NoInvois           string `json:"No_Invois"`
	NoAkaun            string `json:"No_Akaun"`
	Tarikh             string `json:"Tarikh"`
	TempohBil          string `json:"Tempoh_Bil"`
	BilanganHari       string `json:"Bilangan_Hari"`
	NoMeter            string `json:"No_Meter"`
	Penggunaan         string `json:"Penggunaan"`
	CajSemasa          string `json:"Caj_Semasa"`
	Tunggakan          string `json:"Tunggakan"`
	JumlahPerluDibayar string `json:"Jumlah_Perlu_Dibayar"`
	Deposit            string `json:"Deposit"`
}
