package printify

// Product is a print-on-demand product in a shop
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Tags            []string  `json:"tags"`
	BlueprintID     int       `json:"blueprint_id"`
	PrintProviderID int       `json:"print_provider_id"`
	ShopID          int       `json:"shop_id"`
	Visible         bool      `json:"visible"`
	IsLocked        bool      `json:"is_locked"`
	Variants        []Variant `json:"variants"`
	Images          []Image   `json:"images"`
	External        *External `json:"external,omitempty"`
	CreatedAt       string    `json:"created_at"`
	UpdatedAt       string    `json:"updated_at"`
}

// Variant is a sellable option of a product; Price is in cents
type Variant struct {
	ID        int    `json:"id"`
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	Price     int    `json:"price"`
	IsEnabled bool   `json:"is_enabled"`
	IsDefault bool   `json:"is_default"`
}

// Image is a rendered product mockup
type Image struct {
	Src        string `json:"src"`
	VariantIDs []int  `json:"variant_ids"`
	Position   string `json:"position"`
	IsDefault  bool   `json:"is_default"`
}

// External links a product to its sales channel listing
type External struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

// ProductInput is the create/update payload for a product
type ProductInput struct {
	Title           string           `json:"title,omitempty"`
	Description     string           `json:"description,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	BlueprintID     int              `json:"blueprint_id,omitempty"`
	PrintProviderID int              `json:"print_provider_id,omitempty"`
	Variants        []VariantInput   `json:"variants,omitempty"`
	PrintAreas      []PrintAreaInput `json:"print_areas,omitempty"`
}

type VariantInput struct {
	ID        int  `json:"id"`
	Price     int  `json:"price"`
	IsEnabled bool `json:"is_enabled"`
}

type PrintAreaInput struct {
	VariantIDs   []int         `json:"variant_ids"`
	Placeholders []Placeholder `json:"placeholders"`
}

type Placeholder struct {
	Position string        `json:"position"`
	Images   []PlacedImage `json:"images"`
}

type PlacedImage struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
	Angle float64 `json:"angle"`
}

// PrintProvider fulfils a blueprint
type PrintProvider struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// CatalogVariants lists the variants a provider offers for a blueprint
type CatalogVariants struct {
	ID       int              `json:"id"`
	Title    string           `json:"title"`
	Variants []CatalogVariant `json:"variants"`
}

type CatalogVariant struct {
	ID      int               `json:"id"`
	Title   string            `json:"title"`
	Options map[string]string `json:"options"`
}

// UploadedImage is an artwork file in the media library
type UploadedImage struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	Height     int    `json:"height"`
	Width      int    `json:"width"`
	Size       int    `json:"size"`
	MimeType   string `json:"mime_type"`
	PreviewURL string `json:"preview_url"`
	UploadTime string `json:"upload_time"`
}

// Order is a production order with its shipment history
type Order struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"external_id"`
	Label      string          `json:"label"`
	Status     string          `json:"status"`
	LineItems  []OrderLineItem `json:"line_items"`
	Shipments  []Shipment      `json:"shipments"`
	CreatedAt  string          `json:"created_at"`
}

type OrderLineItem struct {
	ProductID string `json:"product_id"`
	VariantID int    `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
}

type Shipment struct {
	Carrier     string `json:"carrier"`
	Number      string `json:"number"`
	URL         string `json:"url"`
	DeliveredAt string `json:"delivered_at"`
}

// ShippingRequest prices a prospective order
type ShippingRequest struct {
	LineItems []ShippingLineItem `json:"line_items"`
	AddressTo ShippingAddress    `json:"address_to"`
}

type ShippingLineItem struct {
	ProductID string `json:"product_id"`
	VariantID int    `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type ShippingAddress struct {
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
	Zip     string `json:"zip,omitempty"`
	City    string `json:"city,omitempty"`
}

// Webhook is a shop-scoped event subscription
type Webhook struct {
	ID     string `json:"id"`
	Topic  string `json:"topic"`
	URL    string `json:"url"`
	ShopID string `json:"shop_id"`
}

// Page is one page of a page-number paginated list
type Page[T any] struct {
	Items       []T
	CurrentPage int
	LastPage    int
}
