package complaintservice

// Complaint рекламация клиента
type Complaint struct {
	ID          int64   `json:"id"`
	ClientID    int64   `json:"clientId"`
	ArticleID   int64   `json:"articleId"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   *string `json:"createdAt,omitempty"`
}
