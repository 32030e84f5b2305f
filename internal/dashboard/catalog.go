package dashboard

import (
	"strings"

	"errandgo/internal/domain/profile"
)

// Errand is a marketplace listing as shown on the dashboards. The catalog is
// static sample data; real errand persistence is outside this service.
type Errand struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Area        string `json:"area"`
	Reward      string `json:"reward"`
	Status      string `json:"status,omitempty"`
	Category    string `json:"category"`
	Applicants  int    `json:"applicants"`
	SenderName  string `json:"sender_name,omitempty"`
	TimePosted  string `json:"time_posted"`
}

type Application struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	AppliedAt string `json:"applied_at"`
	Earning   string `json:"earning,omitempty"`
}

type Filter struct {
	Query    string
	Category string
	Status   string
}

// Catalog serves the per-role dashboard listings with in-memory filtering:
// case-insensitive substring match over title and description, plus exact
// category/status narrowing.
type Catalog struct {
	available    []Errand
	posted       []Errand
	applications []Application
}

func NewCatalog() *Catalog {
	return &Catalog{
		available:    availableErrands(),
		posted:       postedErrands(),
		applications: runnerApplications(),
	}
}

// ForRole returns the listings a dashboard renders: available errands for
// runners, the sender's own postings for senders.
func (c *Catalog) ForRole(role profile.Role, f Filter) []Errand {
	src := c.available
	if role == profile.RoleSender {
		src = c.posted
	}
	return filterErrands(src, f)
}

func (c *Catalog) Applications() []Application {
	out := make([]Application, len(c.applications))
	copy(out, c.applications)
	return out
}

func filterErrands(src []Errand, f Filter) []Errand {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	category := strings.ToLower(strings.TrimSpace(f.Category))
	status := strings.ToLower(strings.TrimSpace(f.Status))

	out := make([]Errand, 0, len(src))
	for _, e := range src {
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) {
			continue
		}
		if category != "" && category != "all" && strings.ToLower(e.Category) != category {
			continue
		}
		if status != "" && status != "all" && strings.ToLower(e.Status) != status {
			continue
		}
		out = append(out, e)
	}
	return out
}

func availableErrands() []Errand {
	return []Errand{
		{
			ID:          1,
			Title:       "Buy Recharge Card",
			Description: "Need MTN recharge card worth ₦1000 from any nearby shop",
			Area:        "Alagbaka",
			Reward:      "₦200",
			Category:    "Shopping",
			Applicants:  3,
			SenderName:  "Adebayo Johnson",
			TimePosted:  "2 hours ago",
		},
		{
			ID:          2,
			Title:       "Deliver Documents",
			Description: "Deliver important documents to office in Ondo Road. Must be done today.",
			Area:        "Ondo Road",
			Reward:      "₦500",
			Category:    "Delivery",
			Applicants:  1,
			SenderName:  "Funmi Adeyemi",
			TimePosted:  "4 hours ago",
		},
		{
			ID:          3,
			Title:       "Grocery Shopping",
			Description: "Buy groceries from Shoprite - I have a specific list",
			Area:        "Aule",
			Reward:      "₦800",
			Category:    "Shopping",
			Applicants:  5,
			SenderName:  "Kemi Ogundimu",
			TimePosted:  "6 hours ago",
		},
		{
			ID:          4,
			Title:       "House Cleaning Help",
			Description: "Need help with cleaning my apartment. Should take about 3 hours.",
			Area:        "FUTA Area",
			Reward:      "₦1500",
			Category:    "Cleaning",
			Applicants:  2,
			SenderName:  "Tunde Akinola",
			TimePosted:  "8 hours ago",
		},
	}
}

func postedErrands() []Errand {
	return []Errand{
		{
			ID:          1,
			Title:       "Buy Recharge Card",
			Description: "Need MTN recharge card worth ₦1000",
			Area:        "Alagbaka",
			Reward:      "₦200",
			Status:      "active",
			Category:    "Shopping",
			Applicants:  3,
			TimePosted:  "2 hours ago",
		},
		{
			ID:          2,
			Title:       "Deliver Documents",
			Description: "Deliver important documents to office in Ondo Road",
			Area:        "Ondo Road",
			Reward:      "₦500",
			Status:      "in-progress",
			Category:    "Delivery",
			Applicants:  1,
			TimePosted:  "1 day ago",
		},
		{
			ID:          3,
			Title:       "Grocery Shopping",
			Description: "Buy groceries from Shoprite",
			Area:        "Aule",
			Reward:      "₦800",
			Status:      "completed",
			Category:    "Shopping",
			TimePosted:  "3 days ago",
		},
	}
}

func runnerApplications() []Application {
	return []Application{
		{ID: 2, Title: "Deliver Documents", Status: "pending", AppliedAt: "3 hours ago"},
		{ID: 5, Title: "Pick up Prescription", Status: "accepted", AppliedAt: "1 day ago"},
		{ID: 6, Title: "Car Wash", Status: "completed", AppliedAt: "3 days ago", Earning: "₦600"},
	}
}
