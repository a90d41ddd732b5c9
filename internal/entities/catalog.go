package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned by repositories when an identifier does not resolve.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write would break a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

type Kind string

const (
	KindAuthor       Kind = "author"
	KindGenre        Kind = "genre"
	KindBook         Kind = "book"
	KindBookInstance Kind = "bookinstance"
)

type BookInstanceStatus string

const (
	StatusAvailable   BookInstanceStatus = "Available"
	StatusMaintenance BookInstanceStatus = "Maintenance"
	StatusLoaned      BookInstanceStatus = "Loaned"
	StatusReserved    BookInstanceStatus = "Reserved"
)

// BookInstanceStatuses lists the statuses in the order forms present them.
func BookInstanceStatuses() []BookInstanceStatus {
	return []BookInstanceStatus{StatusMaintenance, StatusAvailable, StatusLoaned, StatusReserved}
}

type Author struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	FamilyName  string     `gorm:"size:100;not null" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	a.ID = uuid.NewString()
	return nil
}

// Name is the display name, "Family, First". Empty when either part is missing.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan renders the birth and death years, e.g. "1920 - 1992" or "1947 - ".
func (a Author) Lifespan() string {
	var b strings.Builder
	if a.DateOfBirth != nil {
		b.WriteString(a.DateOfBirth.Format("2006"))
	}
	if a.DateOfBirth == nil && a.DateOfDeath == nil {
		return ""
	}
	b.WriteString(" - ")
	if a.DateOfDeath != nil {
		b.WriteString(a.DateOfDeath.Format("2006"))
	}
	return b.String()
}

type Genre struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	g.ID = uuid.NewString()
	return nil
}

type Book struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:512;not null" json:"title"`
	AuthorID  string    `gorm:"size:36;index;not null" json:"author"`
	Summary   string    `gorm:"type:text;not null" json:"summary"`
	ISBN      string    `gorm:"column:isbn;size:64;not null" json:"isbn"`
	GenreIDs  []string  `gorm:"-" json:"genre"` // persisted through BookGenre, in submission order
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	b.ID = uuid.NewString()
	return nil
}

// BookGenre is the membership row linking a book to one of its genres.
type BookGenre struct {
	BookID   string `gorm:"primaryKey;size:36"`
	GenreID  string `gorm:"primaryKey;size:36;index"`
	Position int    `gorm:"not null;default:0"`
}

func (BookGenre) TableName() string {
	return "book_genres"
}

type BookInstance struct {
	ID        string             `gorm:"primaryKey;size:36" json:"id"`
	BookID    string             `gorm:"size:36;index;not null" json:"book"`
	Imprint   string             `gorm:"size:512;not null" json:"imprint"`
	Status    BookInstanceStatus `gorm:"size:20;index;not null;default:'Maintenance'" json:"status"`
	DueBack   *time.Time         `json:"due_back,omitempty"`
	CreatedAt time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (i *BookInstance) BeforeCreate(tx *gorm.DB) error {
	i.ID = uuid.NewString()
	return nil
}

// Normalize applies the status rules: an empty status means Maintenance and
// an Available copy has no due date.
func (i *BookInstance) Normalize() {
	if i.Status == "" {
		i.Status = StatusMaintenance
	}
	if i.Status == StatusAvailable {
		i.DueBack = nil
	}
}
