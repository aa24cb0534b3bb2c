package model

// Rule is a CEL expression evaluated against the JSON form of a document,
// bound to the variable "doc". A rule that evaluates to false rejects the
// document with Message.
type Rule struct {
	Field      string
	Expression string
	Message    string
}

// Resource describes one collection exposed through the generic CRUD surface.
type Resource[T Entity] struct {
	// Name is the URL segment, e.g. "properties" for /api/properties.
	Name string
	// Collection is the MongoDB collection backing the resource.
	Collection string
	// Required lists JSON field names that must be present and non-empty.
	Required []string
	Rules    []Rule
	// Public resources accept creates from visitors even when write
	// protection is enabled. Updates and deletes stay guarded.
	Public bool
	// Private resources hold visitor contact details; with write protection
	// enabled their reads are guarded as well.
	Private bool
	New     func() T
}

// ResourceInfo is the type-erased view of a Resource.
type ResourceInfo struct {
	Name       string
	Collection string
	Public     bool
	Private    bool
}

// Info returns the type-erased descriptor.
func (r Resource[T]) Info() ResourceInfo {
	return ResourceInfo{Name: r.Name, Collection: r.Collection, Public: r.Public, Private: r.Private}
}

var (
	PropertyResource = Resource[*Property]{
		Name:       "properties",
		Collection: "properties",
		Required:   []string{"title"},
		Rules: []Rule{
			{
				Field:      "brochure",
				Expression: `!has(doc.brochure) || !doc.brochure.startsWith("data:") || doc.brochure.startsWith("data:application/pdf")`,
				Message:    "brochure must be a PDF document",
			},
		},
		New: func() *Property { return &Property{} },
	}

	ServiceResource = Resource[*Service]{
		Name:       "services",
		Collection: "services",
		Required:   []string{"title"},
		New:        func() *Service { return &Service{} },
	}

	PartnerResource = Resource[*Partner]{
		Name:       "partners",
		Collection: "partners",
		Required:   []string{"name"},
		New:        func() *Partner { return &Partner{} },
	}

	EmirateResource = Resource[*Emirate]{
		Name:       "emirates",
		Collection: "emirates",
		Required:   []string{"name"},
		New:        func() *Emirate { return &Emirate{} },
	}

	// WhyDubaiResource keeps the collection name existing deployments already use.
	WhyDubaiResource = Resource[*WhyDubai]{
		Name:       "whydubai",
		Collection: "whydubais",
		Required:   []string{"title"},
		New:        func() *WhyDubai { return &WhyDubai{} },
	}

	TestimonialResource = Resource[*Testimonial]{
		Name:       "testimonials",
		Collection: "testimonials",
		Required:   []string{"name", "text"},
		Public:     true,
		New:        func() *Testimonial { return &Testimonial{} },
	}

	LeadResource = Resource[*Lead]{
		Name:       "leads",
		Collection: "leads",
		Required:   []string{"name", "email"},
		Rules: []Rule{
			{
				Field:      "email",
				Expression: `doc.email.matches("^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$")`,
				Message:    "email is invalid",
			},
		},
		Public:  true,
		Private: true,
		New:     func() *Lead { return &Lead{} },
	}
)
