package domain

import "time"

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleCashier UserRole = "cashier"

	TransferPending          TransferStatus = "pending"
	TransferReceived         TransferStatus = "received"
	TransferRenditionPending TransferStatus = "rendition_pending"
	TransferCompleted        TransferStatus = "completed"

	RenditionPending  RenditionStatus = "pending"
	RenditionApproved RenditionStatus = "approved"
	RenditionRejected RenditionStatus = "rejected"

	BonusPending  BonusStatus = "pending"
	BonusApproved BonusStatus = "approved"
	BonusPaid     BonusStatus = "paid"

	AlertInfo    AlertType = "info"
	AlertSuccess AlertType = "success"
	AlertWarning AlertType = "warning"
	AlertError   AlertType = "error"
)

type UserRole string
type TransferStatus string
type RenditionStatus string
type BonusStatus string
type AlertType string

type Money struct {
	Amount   int64
	Currency string
}

type BusinessUnit struct {
	ID        int64
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type User struct {
	ID             int64
	Name           string
	Email          string
	Role           UserRole
	BusinessUnitID *int64
	PasswordHash   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Sale records one sale for a business unit, broken down by payment method.
// Sales are immutable once recorded.
type Sale struct {
	ID             int64
	BusinessUnitID int64
	Date           time.Time
	Amount         Money
	CashAmount     int64
	CardAmount     int64
	TransferAmount int64
	RecordedBy     *int64
	CreatedAt      time.Time
}

// Transfer is a cash movement from the central fund to a business unit,
// awaiting rendition. Amount is strictly positive.
type Transfer struct {
	ID             int64
	FromUserID     *int64
	BusinessUnitID int64
	Amount         Money
	Week           string
	Status         TransferStatus
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Rendition accounts for how a Transfer's cash was spent. TotalExpenses and
// RemainingAmount are denormalized from the owned expenses; RemainingAmount
// may be negative (overspend).
type Rendition struct {
	ID              int64
	TransferID      int64
	BusinessUnitID  int64
	SubmittedBy     *int64
	Week            string
	TransferAmount  Money
	TotalExpenses   Money
	RemainingAmount Money
	Status          RenditionStatus
	Notes           string
	Expenses        []Expense
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Expense struct {
	ID          int64
	RenditionID int64
	Description string
	Amount      Money
	Category    string
	Date        time.Time
	CreatedAt   time.Time
}

// Goal is a monthly sales target for a business unit. BonusPercentage is the
// rate applied to the amount sold above target, in percent (0 < p <= 50).
type Goal struct {
	ID              int64
	BusinessUnitID  int64
	Month           string
	TargetAmount    Money
	BonusPercentage float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Bonus is a payout snapshot taken at calculation time. It is not recomputed
// when later sales arrive for the same month.
type Bonus struct {
	ID                 int64
	BusinessUnitID     int64
	Month              string
	GoalAmount         Money
	ActualAmount       Money
	PercentageAchieved int
	Amount             Money
	Status             BonusStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Alert struct {
	ID             int64
	Title          string
	Message        string
	Type           AlertType
	BusinessUnitID *int64
	UserID         *int64
	CreatedAt      time.Time
	ReadAt         *time.Time
	DeletedAt      *time.Time
}
