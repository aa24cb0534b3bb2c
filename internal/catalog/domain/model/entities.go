package model

// Property is a listed real-estate asset. Media fields hold inline data URIs
// or plain URLs exactly as submitted.
type Property struct {
	Document          `bson:",inline" yaml:",inline"`
	Title             string        `json:"title" bson:"title" yaml:"title"`
	Location          string        `json:"location" bson:"location" yaml:"location"`
	Price             Text          `json:"price" bson:"price" yaml:"price"`
	Developer         string        `json:"developer" bson:"developer" yaml:"developer"`
	Category          string        `json:"category" bson:"category" yaml:"category"`
	Beds              Text          `json:"beds" bson:"beds" yaml:"beds"`
	Baths             Text          `json:"baths" bson:"baths" yaml:"baths"`
	Sqft              Text          `json:"sqft" bson:"sqft" yaml:"sqft"`
	Description       string        `json:"description" bson:"description" yaml:"description"`
	Img               string        `json:"img" bson:"img" yaml:"img"`
	HeroImages        []string      `json:"heroImages" bson:"heroImages" yaml:"heroImages"`
	MasterPlanImages  []string      `json:"masterPlanImages" bson:"masterPlanImages" yaml:"masterPlanImages"`
	NearbyPlaces      []NearbyPlace `json:"nearbyPlaces" bson:"nearbyPlaces" yaml:"nearbyPlaces"`
	FloorPlans        []FloorPlan   `json:"floorPlans" bson:"floorPlans" yaml:"floorPlans"`
	SelectedAmenities []string      `json:"selectedAmenities" bson:"selectedAmenities" yaml:"selectedAmenities"`
	VisionDesc        string        `json:"visionDesc" bson:"visionDesc" yaml:"visionDesc"`
	OwnerName         string        `json:"ownerName" bson:"ownerName" yaml:"ownerName"`
	OwnerEmail        string        `json:"ownerEmail" bson:"ownerEmail" yaml:"ownerEmail"`
	OwnerPhone        string        `json:"ownerPhone" bson:"ownerPhone" yaml:"ownerPhone"`
	OwnerCountry      string        `json:"ownerCountry,omitempty" bson:"ownerCountry,omitempty" yaml:"ownerCountry,omitempty"`
	PropertyValue     Text          `json:"propertyValue" bson:"propertyValue" yaml:"propertyValue"`
	PrivacyConsent    bool          `json:"privacyConsent,omitempty" bson:"privacyConsent,omitempty" yaml:"privacyConsent,omitempty"`
	Brochure          string        `json:"brochure,omitempty" bson:"brochure,omitempty" yaml:"brochure,omitempty"`
	VideoURL          string        `json:"videoUrl,omitempty" bson:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
}

// NearbyPlace is a landmark with its travel time, e.g. "City Walk Mall", "2 Mins".
type NearbyPlace struct {
	Name string `json:"name" bson:"name" yaml:"name"`
	Time string `json:"time" bson:"time" yaml:"time"`
}

// FloorPlan describes one unit layout.
type FloorPlan struct {
	Type  string `json:"type" bson:"type" yaml:"type"`
	Sqft  Text   `json:"sqft" bson:"sqft" yaml:"sqft"`
	Image string `json:"image" bson:"image" yaml:"image"`
}

// Normalize replaces nil slices so they serialize as [] rather than null.
func (p *Property) Normalize() {
	if p.HeroImages == nil {
		p.HeroImages = []string{}
	}
	if p.MasterPlanImages == nil {
		p.MasterPlanImages = []string{}
	}
	if p.NearbyPlaces == nil {
		p.NearbyPlaces = []NearbyPlace{}
	}
	if p.FloorPlans == nil {
		p.FloorPlans = []FloorPlan{}
	}
	if p.SelectedAmenities == nil {
		p.SelectedAmenities = []string{}
	}
	if p.Img == "" && len(p.HeroImages) > 0 {
		p.Img = p.HeroImages[0]
	}
}

// Service is a consultancy service card.
type Service struct {
	Document `bson:",inline" yaml:",inline"`
	Title    string `json:"title" bson:"title" yaml:"title"`
	Image    string `json:"image" bson:"image" yaml:"image"`
	Desc     string `json:"desc,omitempty" bson:"desc,omitempty" yaml:"desc,omitempty"`
}

// Partner is a developer partner shown with its logo.
type Partner struct {
	Document `bson:",inline" yaml:",inline"`
	Name     string `json:"name" bson:"name" yaml:"name"`
	Logo     string `json:"logo" bson:"logo" yaml:"logo"`
}

// Emirate is one of the seven emirates with a short tagline.
type Emirate struct {
	Document `bson:",inline" yaml:",inline"`
	Name     string `json:"name" bson:"name" yaml:"name"`
	Desc     string `json:"desc" bson:"desc" yaml:"desc"`
	Image    string `json:"image,omitempty" bson:"image,omitempty" yaml:"image,omitempty"`
}

// WhyDubai is an investment-argument card with bullet points.
type WhyDubai struct {
	Document `bson:",inline" yaml:",inline"`
	Title    string   `json:"title" bson:"title" yaml:"title"`
	Text     string   `json:"text" bson:"text" yaml:"text"`
	Points   []string `json:"points" bson:"points" yaml:"points"`
}

// Normalize replaces a nil points slice.
func (w *WhyDubai) Normalize() {
	if w.Points == nil {
		w.Points = []string{}
	}
}

// Testimonial is a client review.
type Testimonial struct {
	Document `bson:",inline" yaml:",inline"`
	Name     string `json:"name" bson:"name" yaml:"name"`
	Country  string `json:"country" bson:"country" yaml:"country"`
	Text     string `json:"text" bson:"text" yaml:"text"`
}

// Lead is a prospective client captured from the contact form or a visitor sign-in.
type Lead struct {
	Document `bson:",inline" yaml:",inline"`
	Name     string `json:"name" bson:"name" yaml:"name"`
	Email    string `json:"email" bson:"email" yaml:"email"`
	Phone    string `json:"phone" bson:"phone" yaml:"phone"`
	Message  string `json:"message,omitempty" bson:"message,omitempty" yaml:"message,omitempty"`
	Source   string `json:"source,omitempty" bson:"source,omitempty" yaml:"source,omitempty"`
}

// Lead sources
const (
	LeadSourceContactForm  = "contact-form"
	LeadSourceVisitorLogin = "visitor-login"
)

// Normalize defaults the lead source.
func (l *Lead) Normalize() {
	if l.Source == "" {
		l.Source = LeadSourceContactForm
	}
}
