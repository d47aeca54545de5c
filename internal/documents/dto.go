package documents

import (
	"time"

	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// Actor identifies the authenticated caller for authorization decisions.
type Actor struct {
	UserID  int64
	OrgID   int64
	OrgType enums.OrgType
	Role    enums.MemberRole
}

// CreateInput attaches paperwork to an order.
type CreateInput struct {
	OrderID int64
	Kind    enums.DocumentKind
	FileURL string
}

// ListInput pages org-scoped documents, optionally narrowed to one order.
type ListInput struct {
	OrderID int64
	Limit   int
	Offset  int
}

// DocumentView is the read shape for an order document.
type DocumentView struct {
	ID               int64              `json:"id"`
	OrderID          int64              `json:"order_id"`
	Kind             enums.DocumentKind `json:"kind"`
	FileURL          string             `json:"file_url"`
	UploadedByUserID int64              `json:"uploaded_by_user_id"`
	CreatedAt        time.Time          `json:"created_at"`
}

// NewDocumentView maps a model row.
func NewDocumentView(doc *models.OrderDocument) DocumentView {
	return DocumentView{
		ID:               doc.ID,
		OrderID:          doc.OrderID,
		Kind:             doc.Kind,
		FileURL:          doc.FileURL,
		UploadedByUserID: doc.UploadedByUserID,
		CreatedAt:        doc.CreatedAt,
	}
}
