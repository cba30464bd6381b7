package shoppinglist

// Line is one aggregated entry of the shopping list.
type Line struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// Document is a rendered shopping list ready to be sent as an attachment.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}
