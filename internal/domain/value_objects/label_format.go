package valueobjects

type LabelFormat string

const (
	LabelFormatPDF LabelFormat = "PDF"
	LabelFormatZPL LabelFormat = "ZPL"
)

func (f LabelFormat) String() string {
	return string(f)
}
