package handlers

type ItemRequest struct {
	Id        int    `json:"id,omitempty"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

type ItemResponse struct {
	Id        int    `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
	LowStock  bool   `json:"low_stock,omitempty"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ItemsSearchResult struct {
	Data []ItemResponse `json:"data"`
	Meta Meta           `json:"meta,omitempty"`
}

// QuantityAdjustmentRequest carries a signed delta; kind defaults to
// RESTOCK for positive and ISSUE for negative deltas.
type QuantityAdjustmentRequest struct {
	Delta  int    `json:"delta"`
	Kind   string `json:"kind,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// CorrectionRequest carries the desired absolute quantity; the engine
// computes and records the delta.
type CorrectionRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

type ThresholdRequest struct {
	Threshold int `json:"threshold"`
}

type ThresholdResult struct {
	UpdatedRows int `json:"updated_rows"`
}

type DeletedResult struct {
	DeletedRows int `json:"deleted_rows"`
}

type LedgerEntryResponse struct {
	ID        int    `json:"id"`
	ItemID    int    `json:"item_id"`
	ItemName  string `json:"item_name"`
	Location  string `json:"location"`
	Delta     int    `json:"delta"`
	Kind      string `json:"kind"`
	Reason    string `json:"reason,omitempty"`
	Actor     string `json:"actor"`
	CreatedAt string `json:"created_at"`
}

type LedgerSearchResult struct {
	Data []LedgerEntryResponse `json:"data"`
	Meta Meta                  `json:"meta,omitempty"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterAsAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
