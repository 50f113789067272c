package api

import (
	"context"
	"regexp"
	"strings"

	apperrors "github.com/jrsteele09/go-school-app/internal/errors"
)

const defaultDynamicColor = "#111827"

var hexColorRegexp = regexp.MustCompile(`^#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)

// Raw dashboard payload as the PHP API sends it. Optional blocks and
// numbers are pointers; zero defaults are applied during normalization.
type dashboardResponse struct {
	Status    bool           `json:"status"`
	Msg       string         `json:"msg"`
	User      *dashboardUser `json:"user"`
	Dashboard *dashboardData `json:"dashboard"`
}

type dashboardUser struct {
	ID     int64  `json:"id"`
	UserID string `json:"userid"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type dashboardData struct {
	Carousel []string `json:"carousel"`
	Student  *struct {
		Boy  *int `json:"Boy"`
		Girl *int `json:"Girl"`
	} `json:"student"`
	Amount *struct {
		Total *float64 `json:"Total"`
		Paid  *float64 `json:"Paid"`
		Due   *float64 `json:"due"`
	} `json:"amount"`
	Color *struct {
		DynamicColor string `json:"dynamic_color"`
	} `json:"color"`
}

// User is the profile block of the dashboard payload.
type User struct {
	ID     int64
	UserID string
	Name   string
	Mobile string
}

// StudentCounts splits the enrolled students by gender.
type StudentCounts struct {
	Boys  int
	Girls int
}

// AmountSummary is the fee summary in the school's currency.
type AmountSummary struct {
	Total float64
	Paid  float64
	Due   float64
}

// Dashboard is the normalized model handed to the UI layer. DynamicColor is
// always a well-formed hex color.
type Dashboard struct {
	Message      string
	User         User
	Carousel     []string
	Students     StudentCounts
	Amount       AmountSummary
	DynamicColor string
}

// DashboardService fetches and normalizes the protected dashboard payload.
type DashboardService struct {
	gw       *Gateway
	sessions Sessions
}

func NewDashboardService(gw *Gateway, sessions Sessions) *DashboardService {
	return &DashboardService{gw: gw, sessions: sessions}
}

// Fetch loads the dashboard. The PHP API reports an expired token as a
// business failure in a 200 response rather than a 401, so a status:false
// body whose message names an invalid token is treated exactly like a
// server-side authorization failure: the session is cleared and an auth
// error is returned.
func (s *DashboardService) Fetch(ctx context.Context) (*Dashboard, error) {
	var resp dashboardResponse
	if err := s.gw.Post(ctx, EndpointDashboard, struct{}{}, &resp); err != nil {
		return nil, err
	}

	if !resp.Status {
		msg := messageOr(resp.Msg, "Dashboard access denied")
		if isTokenInvalidMessage(msg) {
			s.sessions.ClearSession()
			return nil, apperrors.Auth(msg)
		}
		return nil, apperrors.API(msg, 0)
	}

	if resp.User == nil || resp.Dashboard == nil {
		return nil, apperrors.API("Dashboard data missing from server", 0)
	}

	dash := resp.Dashboard
	model := &Dashboard{
		Message: messageOr(resp.Msg, "Dashboard loaded"),
		User: User{
			ID:     resp.User.ID,
			UserID: resp.User.UserID,
			Name:   resp.User.Name,
			Mobile: resp.User.Mobile,
		},
		Carousel:     dash.Carousel,
		DynamicColor: defaultDynamicColor,
	}
	if model.Carousel == nil {
		model.Carousel = []string{}
	}
	if dash.Student != nil {
		model.Students.Boys = intOrZero(dash.Student.Boy)
		model.Students.Girls = intOrZero(dash.Student.Girl)
	}
	if dash.Amount != nil {
		model.Amount.Total = floatOrZero(dash.Amount.Total)
		model.Amount.Paid = floatOrZero(dash.Amount.Paid)
		model.Amount.Due = floatOrZero(dash.Amount.Due)
	}
	if dash.Color != nil && hexColorRegexp.MatchString(dash.Color.DynamicColor) {
		model.DynamicColor = dash.Color.DynamicColor
	}
	return model, nil
}

func isTokenInvalidMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "invalid") && strings.Contains(m, "token")
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
