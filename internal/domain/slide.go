package domain

// Slide is one carousel entry. Slice order is rotation order.
type Slide struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Image    string `json:"image" yaml:"image"`
}
