// Package dto defines the flattened JSON shapes the REST API exposes and
// their conversions from domain entities. Entities never cross the HTTP
// boundary directly.
package dto

import (
	"time"

	"ideaforge-backend/domain/core/entities"
	"ideaforge-backend/pkg/common"
)

// Idea is the API representation of an idea
type Idea struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IdeaFromEntity converts a domain idea to its API shape
func IdeaFromEntity(idea *entities.Idea) Idea {
	tags := idea.Tags()
	if tags == nil {
		tags = []string{}
	}
	return Idea{
		ID:        idea.ID().String(),
		Text:      idea.Text(),
		Source:    string(idea.Source()),
		Status:    string(idea.Status()),
		Notes:     idea.Notes(),
		Tags:      tags,
		CreatedAt: idea.CreatedAt(),
		UpdatedAt: idea.UpdatedAt(),
	}
}

// Document is the API representation of one document version
type Document struct {
	ID        string                 `json:"id"`
	IdeaID    string                 `json:"idea_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Content   map[string]interface{} `json:"content"`
	Version   int                    `json:"version"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// DocumentFromEntity converts a domain document to its API shape
func DocumentFromEntity(doc *entities.Document) Document {
	return Document{
		ID:        doc.ID().String(),
		IdeaID:    doc.IdeaID().String(),
		Type:      doc.Type().String(),
		Title:     doc.Title(),
		Content:   doc.Content(),
		Version:   doc.Version().Value(),
		CreatedAt: doc.CreatedAt(),
		UpdatedAt: doc.UpdatedAt(),
	}
}

// Analysis is the API representation of an analysis. Track is only present
// for hackathon analyses.
type Analysis struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	SubjectText string    `json:"subject_text"`
	Score       int       `json:"score"`
	Locale      string    `json:"locale"`
	Feedback    *string   `json:"feedback,omitempty"`
	Suggestions []string  `json:"suggestions"`
	Track       *string   `json:"track,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AnalysisFromEntity converts a domain analysis to its API shape
func AnalysisFromEntity(analysis *entities.Analysis) Analysis {
	out := Analysis{
		ID:          analysis.ID().String(),
		Kind:        string(analysis.Kind()),
		SubjectText: analysis.SubjectText(),
		Score:       analysis.Score().Value(),
		Locale:      analysis.Locale().Code(),
		Suggestions: analysis.Suggestions(),
		CreatedAt:   analysis.CreatedAt(),
		UpdatedAt:   analysis.UpdatedAt(),
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	if feedback, ok := analysis.Feedback(); ok {
		out.Feedback = &feedback
	}
	if category, ok := analysis.Category(); ok {
		if track, ok := category.Track(); ok {
			trackStr := string(track)
			out.Track = &trackStr
		}
	}
	return out
}

// Transaction is the API representation of one ledger entry
type Transaction struct {
	ID          string            `json:"id"`
	Amount      int               `json:"amount"`
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// TransactionFromEntity converts a ledger entry to its API shape
func TransactionFromEntity(tx *entities.CreditTransaction) Transaction {
	return Transaction{
		ID:          tx.ID().String(),
		Amount:      tx.Amount(),
		Type:        tx.Type().String(),
		Description: tx.Description(),
		Metadata:    tx.Metadata(),
		Timestamp:   tx.Timestamp(),
	}
}

// User is the API representation of an account profile
type User struct {
	ID          string          `json:"id"`
	Tier        string          `json:"tier"`
	Preferences UserPreferences `json:"preferences"`
	CreatedAt   time.Time       `json:"created_at"`
}

// UserPreferences is the API representation of a user's preferences
type UserPreferences struct {
	Locale             string `json:"locale"`
	EmailNotifications bool   `json:"email_notifications"`
	AnalysisReminders  bool   `json:"analysis_reminders"`
}

// UserFromEntity converts a domain user to its API shape
func UserFromEntity(user *entities.User) User {
	prefs := user.Preferences()
	return User{
		ID:   user.ID().String(),
		Tier: string(user.Tier()),
		Preferences: UserPreferences{
			Locale:             prefs.Locale.Code(),
			EmailNotifications: prefs.EmailNotifications,
			AnalysisReminders:  prefs.AnalysisReminders,
		},
		CreatedAt: user.CreatedAt(),
	}
}

// PageOf maps a domain page to a page of API shapes
func PageOf[E any, D any](page common.Page[E], convert func(E) D) common.Page[D] {
	items := make([]D, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convert(item))
	}
	return common.Page[D]{
		Items:       items,
		Total:       page.Total,
		Page:        page.Page,
		Limit:       page.Limit,
		TotalPages:  page.TotalPages,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
	}
}
