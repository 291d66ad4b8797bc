package model

import "time"

// InteractionType names the channel a contact happened on.
type InteractionType string

const (
	TypeCall     InteractionType = "Call"
	TypeEmail    InteractionType = "Email"
	TypeLinkedIn InteractionType = "LinkedIn"
	TypeMeeting  InteractionType = "Meeting"

	// Legacy values still matched by the default stats triggers.
	TypeColdCall        InteractionType = "Cold Call"
	TypeLinkedInMessage InteractionType = "LinkedIn Message"
)

// InteractionTypes lists the types offered by the interaction form, in display order.
var InteractionTypes = []InteractionType{TypeCall, TypeEmail, TypeLinkedIn, TypeMeeting}

// Feedback is the outcome recorded for an interaction.
type Feedback string

const (
	FeedbackNoAnswer        Feedback = "No Answer"
	FeedbackNotInterested   Feedback = "Not Interested"
	FeedbackSendMoreInfo    Feedback = "Send More Information"
	FeedbackBookNextMeeting Feedback = "Book Next Meeting"
	FeedbackQualified       Feedback = "Successful qualification"
)

// Feedbacks lists the feedback values offered by the interaction form, in display order.
var Feedbacks = []Feedback{
	FeedbackNoAnswer,
	FeedbackNotInterested,
	FeedbackSendMoreInfo,
	FeedbackBookNextMeeting,
	FeedbackQualified,
}

// RequiresDeadline reports whether the form should ask for a follow-up deadline.
func (f Feedback) RequiresDeadline() bool {
	return f == FeedbackSendMoreInfo || f == FeedbackBookNextMeeting
}

// Account is a prospective client organization. It owns its prospects.
type Account struct {
	ID          string     `json:"id"`
	CompanyName string     `json:"companyName"`
	Industry    string     `json:"industry"`
	CompanyInfo string     `json:"companyInfo"`
	PainPoints  string     `json:"painPoints"`
	Impact      string     `json:"impact"`
	Prospects   []Prospect `json:"prospects"`
}

// Prospect is a contact inside an account. It owns its interactions.
type Prospect struct {
	ID              string        `json:"id"`
	FullName        string        `json:"fullName"`
	Position        string        `json:"position"`
	ContactInfo     string        `json:"contactInfo"`
	LinkedInProfile string        `json:"linkedinProfile"`
	Personality     string        `json:"personality"`
	Interactions    []Interaction `json:"interactions"`
}

// Interaction is a logged contact event. Interactions are append-only.
type Interaction struct {
	ID        string          `json:"id"`
	Type      InteractionType `json:"type"`
	Feedback  Feedback        `json:"feedback"`
	Notes     string          `json:"notes"`
	Timestamp time.Time       `json:"timestamp"`
}

// ToDo is a follow-up reminder. AccountID and ProspectID are lookup keys, not ownership.
type ToDo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Completed   bool   `json:"completed"`
	AccountID   string `json:"accountId"`
	ProspectID  string `json:"prospectId"`
}

// Stats holds the running interaction counters.
type Stats struct {
	ColdCalls              int `json:"coldCalls"`
	EmailsSent             int `json:"emailsSent"`
	LinkedInMessages       int `json:"linkedinMessages"`
	SuccessfulInteractions int `json:"successfulInteractions"`
}

// Document is the root aggregate and the unit of persistence.
type Document struct {
	Accounts []Account `json:"accounts"`
	ToDos    []ToDo    `json:"toDos"`
	Stats    Stats     `json:"stats"`
}

// NewDocument returns an empty document with zeroed counters.
func NewDocument() Document {
	return Document{Accounts: []Account{}, ToDos: []ToDo{}}
}

// Normalize replaces nil sequences with empty ones so the document
// always serializes with [] rather than null.
func (d *Document) Normalize() {
	if d.Accounts == nil {
		d.Accounts = []Account{}
	}
	if d.ToDos == nil {
		d.ToDos = []ToDo{}
	}
	for i := range d.Accounts {
		if d.Accounts[i].Prospects == nil {
			d.Accounts[i].Prospects = []Prospect{}
		}
		for j := range d.Accounts[i].Prospects {
			if d.Accounts[i].Prospects[j].Interactions == nil {
				d.Accounts[i].Prospects[j].Interactions = []Interaction{}
			}
		}
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{
		Accounts: make([]Account, len(d.Accounts)),
		ToDos:    make([]ToDo, len(d.ToDos)),
		Stats:    d.Stats,
	}
	for i, a := range d.Accounts {
		out.Accounts[i] = a.Clone()
	}
	copy(out.ToDos, d.ToDos)
	return out
}

// Clone returns a deep copy of the account and its prospects.
func (a Account) Clone() Account {
	out := a
	out.Prospects = make([]Prospect, len(a.Prospects))
	for i, p := range a.Prospects {
		out.Prospects[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of the prospect and its interactions.
func (p Prospect) Clone() Prospect {
	out := p
	out.Interactions = make([]Interaction, len(p.Interactions))
	copy(out.Interactions, p.Interactions)
	return out
}

// FindProspect returns the index of the prospect with id, or -1.
func (a Account) FindProspect(id string) int {
	for i := range a.Prospects {
		if a.Prospects[i].ID == id {
			return i
		}
	}
	return -1
}

// LatestInteraction returns the interaction with the newest timestamp.
// On equal timestamps the earlier-logged one wins.
func (p Prospect) LatestInteraction() (Interaction, bool) {
	if len(p.Interactions) == 0 {
		return Interaction{}, false
	}
	latest := p.Interactions[0]
	for _, in := range p.Interactions[1:] {
		if in.Timestamp.After(latest.Timestamp) {
			latest = in
		}
	}
	return latest, true
}

// InteractionsNewestFirst returns the interactions in reverse log order.
func (p Prospect) InteractionsNewestFirst() []Interaction {
	out := make([]Interaction, len(p.Interactions))
	for i, in := range p.Interactions {
		out[len(p.Interactions)-1-i] = in
	}
	return out
}
