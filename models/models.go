package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents a regular user in the system
type User struct {
	gorm.Model
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	IsBlocked   bool      `json:"is_blocked"`
	IsAdmin     bool      `json:"is_admin" gorm:"default:false"`
	GoogleID    string    `gorm:"default:null" json:"google_id,omitempty"`
	LastLoginAt time.Time `json:"last_login_at"`

	Registrations []Registration `json:"registrations,omitempty" gorm:"foreignKey:UserID"`
}

// Event registration status constants
const (
	RegistrationStatusConfirmed = "confirmed"
	RegistrationStatusCancelled = "cancelled"
)

// Event represents a walk or gathering users can register for
type Event struct {
	gorm.Model
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	StartsAt    time.Time       `json:"starts_at"`
	Capacity    int             `json:"capacity" gorm:"default:0"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2)"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`

	Registrations []Registration `json:"registrations,omitempty" gorm:"foreignKey:EventID"`
}

// Registration links a user to an event they signed up for
type Registration struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"uniqueIndex:idx_user_event;not null"`
	EventID uint   `json:"event_id" gorm:"uniqueIndex:idx_user_event;not null"`
	User    User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Event   Event  `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Status  string `json:"status" gorm:"default:'confirmed'"`
}

// WaitlistEntry queues a user for a full event. Position is 1-based and
// entries are promoted in position order when a spot frees up.
type WaitlistEntry struct {
	gorm.Model
	UserID   uint  `json:"user_id" gorm:"not null"`
	EventID  uint  `json:"event_id" gorm:"not null"`
	User     User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Event    Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Position int   `json:"position"`
	Notified bool  `json:"notified" gorm:"default:false"`
}

// CartItem represents one product line in a user's cart
type CartItem struct {
	gorm.Model
	UserID    uint    `json:"user_id" gorm:"not null"`
	ProductID uint    `json:"product_id" gorm:"not null"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
	Quantity  int     `json:"quantity"`
}
