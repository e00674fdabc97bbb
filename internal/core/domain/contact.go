package domain

// Course interest categories accepted on the contact form.
const (
	InterestWebDevelopment = "web-development"
	InterestDataScience    = "data-science"
	InterestDesign         = "design"
	InterestMobileDev      = "mobile-dev"
	InterestAIML           = "ai-ml"
	InterestBusiness       = "business"
	InterestOther          = "other"
)

// ContactMessage is a validated contact-form submission ready for dispatch.
type ContactMessage struct {
	Name           string
	Email          string
	Phone          string
	CourseInterest string
	Message        string
	Subscribe      bool
	ClientIP       string
}

// InterestLabel maps a course-interest slug to its display name for emails.
func InterestLabel(interest string) string {
	switch interest {
	case InterestWebDevelopment:
		return "Web Development"
	case InterestDataScience:
		return "Data Science"
	case InterestDesign:
		return "UI/UX Design"
	case InterestMobileDev:
		return "Mobile Development"
	case InterestAIML:
		return "AI & Machine Learning"
	case InterestBusiness:
		return "Business & Marketing"
	case InterestOther:
		return "Other"
	case "":
		return "Not specified"
	}
	return interest
}
