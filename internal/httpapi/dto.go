package httpapi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loveeee/ledger/internal/calculator"
	"github.com/loveeee/ledger/internal/models"
	"github.com/loveeee/ledger/internal/service"
)

type profileJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func toProfile(p models.UserProfile) profileJSON {
	return profileJSON{ID: p.ID, Name: p.Name, Avatar: p.Avatar}
}

type coupleJSON struct {
	ID          string      `json:"id"`
	User1       profileJSON `json:"user1"`
	User2       profileJSON `json:"user2"`
	StartDate   time.Time   `json:"startDate"`
	Anniversary *time.Time  `json:"anniversary"`
	SharedGoals string      `json:"sharedGoals,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func toCouple(c *models.CoupleDetail) *coupleJSON {
	if c == nil {
		return nil
	}
	return &coupleJSON{
		ID:          c.ID,
		User1:       toProfile(c.UserOne),
		User2:       toProfile(c.UserTwo),
		StartDate:   c.StartDate,
		Anniversary: c.Anniversary,
		SharedGoals: c.SharedGoals,
		CreatedAt:   unix(c.CreatedAt),
		UpdatedAt:   unix(c.UpdatedAt),
	}
}

// expenseCoupleJSON is the short couple form embedded in each expense.
type expenseCoupleJSON struct {
	ID    string      `json:"id"`
	User1 profileJSON `json:"user1"`
	User2 profileJSON `json:"user2"`
}

type splitJSON struct {
	PayerOwed   json.Number `json:"payerOwed"`
	PartnerOwed json.Number `json:"partnerOwed"`
}

type expenseJSON struct {
	ID          string            `json:"id"`
	CoupleID    string            `json:"coupleId"`
	PaidBy      string            `json:"paidBy"`
	Title       string            `json:"title"`
	Amount      json.Number       `json:"amount"`
	Currency    string            `json:"currency"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
	SplitType   string            `json:"splitType"`
	PaidByOther *json.Number      `json:"paidByOther"`
	Receipt     *string           `json:"receipt"`
	Version     int64             `json:"version"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Payer       profileJSON       `json:"payer"`
	Couple      expenseCoupleJSON `json:"couple"`
	Split       splitJSON         `json:"split"`
}

func toExpense(e *models.ExpenseDetail) expenseJSON {
	out := expenseJSON{
		ID:          e.ID,
		CoupleID:    e.CoupleID,
		PaidBy:      e.PaidBy,
		Title:       e.Title,
		Amount:      number(e.Amount),
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
		SplitType:   string(e.SplitType),
		Version:     e.Version,
		CreatedAt:   unix(e.CreatedAt),
		UpdatedAt:   unix(e.UpdatedAt),
		Payer:       toProfile(e.Payer),
		Couple: expenseCoupleJSON{
			ID:    e.Couple.ID,
			User1: toProfile(e.Couple.UserOne),
			User2: toProfile(e.Couple.UserTwo),
		},
		Split: splitJSON{
			PayerOwed:   number(e.PayerOwed),
			PartnerOwed: number(e.PartnerOwed),
		},
	}
	if e.PaidByOther != nil {
		n := number(*e.PaidByOther)
		out.PaidByOther = &n
	}
	return out
}

func toExpenses(details []*models.ExpenseDetail) []expenseJSON {
	out := make([]expenseJSON, 0, len(details))
	for _, d := range details {
		out = append(out, toExpense(d))
	}
	return out
}

type memberBalanceJSON struct {
	UserID    string      `json:"userId"`
	TotalPaid json.Number `json:"totalPaid"`
	TotalOwed json.Number `json:"totalOwed"`
	Net       json.Number `json:"net"`
}

type balanceJSON struct {
	Currency     string              `json:"currency"`
	Members      []memberBalanceJSON `json:"members"`
	Debtor       string              `json:"debtor,omitempty"`
	Creditor     string              `json:"creditor,omitempty"`
	Amount       json.Number         `json:"amount"`
	ExpenseCount int                 `json:"expenseCount"`
}

type summaryJSON struct {
	Couple   *coupleJSON   `json:"couple"`
	Balances []balanceJSON `json:"balances"`
}

func toSummary(s *service.Summary) *summaryJSON {
	if s == nil {
		return nil
	}
	out := &summaryJSON{Couple: toCouple(s.Couple), Balances: make([]balanceJSON, 0, len(s.Balances))}
	for _, b := range s.Balances {
		out.Balances = append(out.Balances, toBalance(b))
	}
	return out
}

func toBalance(b calculator.CurrencyBalance) balanceJSON {
	out := balanceJSON{
		Currency:     b.Currency,
		Debtor:       b.Debtor,
		Creditor:     b.Creditor,
		Amount:       number(b.Amount),
		ExpenseCount: b.ExpenseCount,
	}
	for _, m := range b.Members {
		out.Members = append(out.Members, memberBalanceJSON{
			UserID:    m.UserID,
			TotalPaid: number(m.TotalPaid),
			TotalOwed: number(m.TotalOwed),
			Net:       number(m.Net),
		})
	}
	return out
}

type userJSON struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type sessionJSON struct {
	User  userJSON `json:"user"`
	Token string   `json:"token"`
}

func toSession(s *service.Session) sessionJSON {
	return sessionJSON{
		User: userJSON{
			ID:          s.User.ID,
			Email:       s.User.Email,
			DisplayName: s.User.DisplayName,
			AvatarURL:   s.User.AvatarURL,
			CreatedAt:   unix(s.User.CreatedAt),
		},
		Token: s.Token,
	}
}

// number renders a decimal as a bare JSON number.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func unix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
