package model

// FAQ is a question shown on the landing page.
type FAQ struct {
	Question string `json:"q" yaml:"q"`
	Answer   string `json:"a" yaml:"a"`
}

// ProcessStep is one stage of the buying process.
type ProcessStep struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Desc  string `json:"desc" yaml:"desc"`
}

// Amenity is a selectable property amenity.
type Amenity struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Highlight is a "life in Dubai" card.
type Highlight struct {
	Title string `json:"title" yaml:"title"`
	Desc  string `json:"desc" yaml:"desc"`
	Img   string `json:"img" yaml:"img"`
}

// District is a pin on the Dubai map, positioned in percent.
type District struct {
	Name string `json:"name" yaml:"name"`
	Top  string `json:"top" yaml:"top"`
	Left string `json:"left" yaml:"left"`
	Desc string `json:"desc" yaml:"desc"`
}

// Office is one of the company's international locations.
type Office struct {
	Name string `json:"name" yaml:"name"`
	Desc string `json:"desc" yaml:"desc"`
	Img  string `json:"img" yaml:"img"`
}

// StaticContent is the bundled fallback content. Resource lists are merged
// ahead of stored documents; the rest is served as-is.
type StaticContent struct {
	Emirates     []*Emirate     `yaml:"emirates"`
	Services     []*Service     `yaml:"services"`
	Partners     []*Partner     `yaml:"partners"`
	WhyDubai     []*WhyDubai    `yaml:"whyDubai"`
	Properties   []*Property    `yaml:"properties"`
	Testimonials []*Testimonial `yaml:"testimonials"`

	SiteContent `yaml:",inline"`
}

// SiteContent is the part of the bundle that is not a resource collection.
type SiteContent struct {
	FAQs         []FAQ                             `json:"faqs" yaml:"faqs"`
	ProcessSteps []ProcessStep                     `json:"processSteps" yaml:"processSteps"`
	Amenities    []Amenity                         `json:"amenities" yaml:"amenities"`
	LifeInDubai  []Highlight                       `json:"lifeInDubai" yaml:"lifeInDubai"`
	MapDistricts []District                        `json:"mapDistricts" yaml:"mapDistricts"`
	Offices      []Office                          `json:"offices" yaml:"offices"`
	Translations map[string]map[string]interface{} `json:"translations" yaml:"translations"`
}
