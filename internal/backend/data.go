package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"delice/internal/domain"
)

// Data rows as the REST layer returns them. Nullable columns come back
// as pointers; the mappers flatten them.

type menuRow struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url"`
	Available   bool    `json:"available"`
	Category    *string `json:"category"`
}

func (r menuRow) item() domain.MenuItem {
	return domain.MenuItem{
		ID:          r.ID,
		Name:        r.Name,
		Description: deref(r.Description),
		Price:       r.Price,
		ImageURL:    deref(r.ImageURL),
		Available:   r.Available,
		Category:    deref(r.Category),
	}
}

type orderRow struct {
	ID           string             `json:"id"`
	CustomerName *string            `json:"customer_name"`
	Total        *float64           `json:"total"`
	Status       domain.OrderStatus `json:"status"`
	Type         domain.OrderType   `json:"type"`
	CreatedAt    *string            `json:"created_at"`
}

func (r orderRow) order() domain.Order {
	o := domain.Order{ID: r.ID, Status: r.Status, Type: r.Type}
	if r.Total != nil {
		o.Total = *r.Total
	}
	if r.CreatedAt != nil && *r.CreatedAt != "" {
		o.Date = (*r.CreatedAt)[:10]
		if ts, err := time.Parse(time.RFC3339, *r.CreatedAt); err == nil {
			o.Time = ts.Format("15:04")
		}
	}
	return o
}

type settingsRow struct {
	ID             string  `json:"id"`
	RestaurantName *string `json:"restaurant_name"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Address        *string `json:"address"`
	WeekdayHours   *string `json:"weekday_hours"`
	WeekendHours   *string `json:"weekend_hours"`
	UpdatedAt      *string `json:"updated_at,omitempty"`
}

func (r settingsRow) settings() domain.Settings {
	return domain.Settings{
		RestaurantName: deref(r.RestaurantName),
		Phone:          deref(r.Phone),
		Email:          deref(r.Email),
		Address:        deref(r.Address),
		WeekdayHours:   deref(r.WeekdayHours),
		WeekendHours:   deref(r.WeekendHours),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strptr(s string) *string { return &s }

func (c *Client) table(name, query string) string {
	u := c.BaseURL + "/rest/v1/" + name
	if query != "" {
		u += "?" + query
	}
	return u
}

// returnRepresentation asks the data layer to echo the written row back.
var returnRepresentation = map[string]string{"Prefer": "return=representation"}

// ---------- menu ----------

func (c *Client) ListMenu(ctx context.Context, token string) ([]domain.MenuItem, error) {
	var rows []menuRow
	u := c.table("menu_items", "select=*&order=name.asc")
	if err := c.doJSON(ctx, "GET", u, token, nil, &rows, nil); err != nil {
		return nil, err
	}
	items := make([]domain.MenuItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item())
	}
	return items, nil
}

func (c *Client) InsertMenuItem(ctx context.Context, token string, it domain.MenuItem) (domain.MenuItem, error) {
	row := menuRow{
		ID:          it.ID,
		Name:        it.Name,
		Description: strptr(it.Description),
		Price:       it.Price,
		ImageURL:    strptr(it.ImageURL),
		Available:   it.Available,
		Category:    strptr(it.Category),
	}
	var out []menuRow
	u := c.table("menu_items", "select=*")
	if err := c.doJSON(ctx, "POST", u, token, row, &out, returnRepresentation); err != nil {
		return domain.MenuItem{}, err
	}
	if len(out) == 0 {
		return it, nil
	}
	return out[0].item(), nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, token string, it domain.MenuItem) (domain.MenuItem, error) {
	row := map[string]any{
		"name":        it.Name,
		"description": it.Description,
		"price":       it.Price,
		"image_url":   it.ImageURL,
		"available":   it.Available,
		"category":    it.Category,
	}
	var out []menuRow
	u := c.table("menu_items", "id=eq."+url.QueryEscape(it.ID)+"&select=*")
	if err := c.doJSON(ctx, "PATCH", u, token, row, &out, returnRepresentation); err != nil {
		return domain.MenuItem{}, err
	}
	if len(out) == 0 {
		return domain.MenuItem{}, &RemoteError{Status: 404, Message: fmt.Sprintf("menu item %s not found", it.ID)}
	}
	return out[0].item(), nil
}

// SetMenuImage patches just the image_url column after an upload.
func (c *Client) SetMenuImage(ctx context.Context, token, id, imageURL string) error {
	u := c.table("menu_items", "id=eq."+url.QueryEscape(id))
	return c.doJSON(ctx, "PATCH", u, token, map[string]string{"image_url": imageURL}, nil, nil)
}

func (c *Client) DeleteMenuItem(ctx context.Context, token, id string) error {
	u := c.table("menu_items", "id=eq."+url.QueryEscape(id))
	return c.doJSON(ctx, "DELETE", u, token, nil, nil, nil)
}

// ---------- orders ----------

// ListOrders returns the orders visible to the caller, newest first.
// Row-level access on the remote side scopes customers to their own.
func (c *Client) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var rows []orderRow
	u := c.table("orders", "select=id,customer_name,total,status,type,created_at&order=created_at.desc")
	if err := c.doJSON(ctx, "GET", u, token, nil, &rows, nil); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, r.order())
	}
	return orders, nil
}

type orderInsert struct {
	CustomerName  string  `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	Total         float64 `json:"total"`
	Status        string  `json:"status"`
	Type          string  `json:"type"`
}

// CreateOrder inserts a pending order header and returns the stored
// row. Line items travel with the payment flow, not the insert; the
// insert stays minimal on purpose.
func (c *Client) CreateOrder(ctx context.Context, token, customerName, phone, notes string, total float64, typ domain.OrderType) (domain.Order, error) {
	in := orderInsert{CustomerName: customerName, Total: total, Status: string(domain.StatusPending), Type: string(typ)}
	if phone != "" {
		in.CustomerPhone = strptr(phone)
	}
	if notes != "" {
		in.Notes = strptr(notes)
	}
	var out []orderRow
	u := c.table("orders", "select=id,customer_name,total,status,type,created_at")
	if err := c.doJSON(ctx, "POST", u, token, in, &out, returnRepresentation); err != nil {
		return domain.Order{}, err
	}
	if len(out) == 0 {
		return domain.Order{}, &RemoteError{Status: 500, Message: "order insert returned no row"}
	}
	return out[0].order(), nil
}

// UpdateOrderStatus requests a transition and returns the status the
// remote side actually stored. Callers must apply that value, not the
// one they asked for.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, id string, status domain.OrderStatus) (domain.OrderStatus, error) {
	var out []orderRow
	u := c.table("orders", "id=eq."+url.QueryEscape(id)+"&select=id,status")
	body := map[string]string{"status": string(status)}
	if err := c.doJSON(ctx, "PATCH", u, token, body, &out, returnRepresentation); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", &RemoteError{Status: 404, Message: fmt.Sprintf("order %s not found", id)}
	}
	return out[0].Status, nil
}

// ---------- settings ----------

const settingsID = "singleton"

// FetchSettings reads the singleton settings row. A missing row is not
// an error; it just means nobody saved settings yet.
func (c *Client) FetchSettings(ctx context.Context, token string) (domain.Settings, bool, error) {
	var rows []settingsRow
	u := c.table("settings", "select=*&id=eq."+settingsID+"&limit=1")
	if err := c.doJSON(ctx, "GET", u, token, nil, &rows, nil); err != nil {
		return domain.Settings{}, false, err
	}
	if len(rows) == 0 {
		return domain.Settings{}, false, nil
	}
	return rows[0].settings(), true, nil
}

// SaveSettings upserts the singleton row (fixed id, conflict on id).
func (c *Client) SaveSettings(ctx context.Context, token string, s domain.Settings) (domain.Settings, error) {
	row := settingsRow{
		ID:             settingsID,
		RestaurantName: strptr(s.RestaurantName),
		Phone:          strptr(s.Phone),
		Email:          strptr(s.Email),
		Address:        strptr(s.Address),
		WeekdayHours:   strptr(s.WeekdayHours),
		WeekendHours:   strptr(s.WeekendHours),
		UpdatedAt:      strptr(time.Now().UTC().Format(time.RFC3339)),
	}
	headers := map[string]string{"Prefer": "return=representation,resolution=merge-duplicates"}
	var out []settingsRow
	u := c.table("settings", "on_conflict=id&select=*")
	if err := c.doJSON(ctx, "POST", u, token, row, &out, headers); err != nil {
		return domain.Settings{}, err
	}
	if len(out) == 0 {
		return s, nil
	}
	return out[0].settings(), nil
}
