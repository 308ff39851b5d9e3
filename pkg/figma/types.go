package figma

import (
	json "github.com/goccy/go-json"
)

// NodeType identifies the variant of a node in the document tree.
type NodeType string

// Node types returned by the Figma API.
const (
	NodeDocument         NodeType = "DOCUMENT"
	NodeCanvas           NodeType = "CANVAS"
	NodeFrame            NodeType = "FRAME"
	NodeGroup            NodeType = "GROUP"
	NodeSection          NodeType = "SECTION"
	NodeComponent        NodeType = "COMPONENT"
	NodeComponentSet     NodeType = "COMPONENT_SET"
	NodeInstance         NodeType = "INSTANCE"
	NodeText             NodeType = "TEXT"
	NodeRectangle        NodeType = "RECTANGLE"
	NodeEllipse          NodeType = "ELLIPSE"
	NodeVector           NodeType = "VECTOR"
	NodeBooleanOperation NodeType = "BOOLEAN_OPERATION"
	NodeLine             NodeType = "LINE"
)

// IsContainer reports whether this node type can carry meaningful children
// for layout purposes.
func (t NodeType) IsContainer() bool {
	switch t {
	case NodeDocument, NodeCanvas, NodeFrame, NodeGroup, NodeSection,
		NodeComponent, NodeComponentSet, NodeInstance:
		return true
	case NodeText, NodeRectangle, NodeEllipse, NodeVector, NodeBooleanOperation, NodeLine:
		return false
	}
	return false
}

// IsShape reports whether this node type is a drawable leaf shape.
func (t NodeType) IsShape() bool {
	switch t {
	case NodeRectangle, NodeEllipse, NodeVector, NodeBooleanOperation, NodeLine:
		return true
	case NodeDocument, NodeCanvas, NodeFrame, NodeGroup, NodeSection,
		NodeComponent, NodeComponentSet, NodeInstance, NodeText:
		return false
	}
	return false
}

// Node is a single element in the document tree. Children are exclusively
// owned by their parent; the tree is acyclic with no back-pointers.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	Visible  bool     `json:"visible"`
	Children []*Node  `json:"children,omitempty"`

	AbsoluteBoundingBox *Rectangle `json:"absoluteBoundingBox,omitempty"`

	Fills           []Paint  `json:"fills,omitempty"`
	Strokes         []Paint  `json:"strokes,omitempty"`
	StrokeWeight    float64  `json:"strokeWeight,omitempty"`
	StrokeAlign     string   `json:"strokeAlign,omitempty"`
	Effects         []Effect `json:"effects,omitempty"`
	BackgroundColor *Color   `json:"backgroundColor,omitempty"`

	// Auto-layout metadata. LayoutMode is empty for free-form containers.
	LayoutMode             string  `json:"layoutMode,omitempty"`
	ItemSpacing            float64 `json:"itemSpacing,omitempty"`
	CounterAxisSpacing     float64 `json:"counterAxisSpacing,omitempty"`
	PaddingLeft            float64 `json:"paddingLeft,omitempty"`
	PaddingRight           float64 `json:"paddingRight,omitempty"`
	PaddingTop             float64 `json:"paddingTop,omitempty"`
	PaddingBottom          float64 `json:"paddingBottom,omitempty"`
	PrimaryAxisAlignItems  string  `json:"primaryAxisAlignItems,omitempty"`
	CounterAxisAlignItems  string  `json:"counterAxisAlignItems,omitempty"`
	PrimaryAxisSizingMode  string  `json:"primaryAxisSizingMode,omitempty"`
	CounterAxisSizingMode  string  `json:"counterAxisSizingMode,omitempty"`
	LayoutWrap             string  `json:"layoutWrap,omitempty"`
	LayoutSizingHorizontal string  `json:"layoutSizingHorizontal,omitempty"`
	LayoutSizingVertical   string  `json:"layoutSizingVertical,omitempty"`
	LayoutAlign            string  `json:"layoutAlign,omitempty"`
	LayoutPositioning      string  `json:"layoutPositioning,omitempty"`
	LayoutGrow             float64 `json:"layoutGrow,omitempty"`

	ClipsContent      bool   `json:"clipsContent,omitempty"`
	ScrollBehavior    string `json:"scrollBehavior,omitempty"`
	OverflowDirection string `json:"overflowDirection,omitempty"`

	MinWidth  *float64 `json:"minWidth,omitempty"`
	MaxWidth  *float64 `json:"maxWidth,omitempty"`
	MinHeight *float64 `json:"minHeight,omitempty"`
	MaxHeight *float64 `json:"maxHeight,omitempty"`

	CornerRadius         float64   `json:"cornerRadius,omitempty"`
	RectangleCornerRadii []float64 `json:"rectangleCornerRadii,omitempty"`

	Opacity  float64 `json:"opacity"`
	Rotation float64 `json:"rotation,omitempty"`
	IsMask   bool    `json:"isMask,omitempty"`

	// TEXT nodes only.
	Characters string     `json:"characters,omitempty"`
	Style      *TypeStyle `json:"style,omitempty"`

	// Style references by type ("fill", "text", "effect", "grid") to the
	// file-level styles table. Used for token extraction.
	Styles map[string]string `json:"styles,omitempty"`

	ComponentPropertyDefinitions map[string]ComponentProperty `json:"componentPropertyDefinitions,omitempty"`
}

// UnmarshalJSON applies the API's implicit defaults: nodes are visible and
// fully opaque unless the payload says otherwise.
func (n *Node) UnmarshalJSON(data []byte) error {
	type alias Node
	aux := struct {
		Visible *bool    `json:"visible"`
		Opacity *float64 `json:"opacity"`
		*alias
	}{alias: (*alias)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n.Visible = aux.Visible == nil || *aux.Visible
	n.Opacity = 1
	if aux.Opacity != nil {
		n.Opacity = *aux.Opacity
	}
	return nil
}

// IsText reports whether the node is a TEXT leaf.
func (n *Node) IsText() bool { return n.Type == NodeText }

// Bounds returns the node's bounding box, or a zero rectangle when the API
// omitted it.
func (n *Node) Bounds() Rectangle {
	if n.AbsoluteBoundingBox == nil {
		return Rectangle{}
	}
	return *n.AbsoluteBoundingBox
}

// PaintType identifies the variant of a fill or stroke.
type PaintType string

// Paint types returned by the Figma API.
const (
	PaintSolid           PaintType = "SOLID"
	PaintGradientLinear  PaintType = "GRADIENT_LINEAR"
	PaintGradientRadial  PaintType = "GRADIENT_RADIAL"
	PaintGradientAngular PaintType = "GRADIENT_ANGULAR"
	PaintGradientDiamond PaintType = "GRADIENT_DIAMOND"
	PaintImage           PaintType = "IMAGE"
	PaintEmoji           PaintType = "EMOJI"
	PaintVideo           PaintType = "VIDEO"
)

// IsGradient reports whether the paint is any of the gradient variants.
func (t PaintType) IsGradient() bool {
	switch t {
	case PaintGradientLinear, PaintGradientRadial, PaintGradientAngular, PaintGradientDiamond:
		return true
	case PaintSolid, PaintImage, PaintEmoji, PaintVideo:
		return false
	}
	return false
}

// Image scale modes.
const (
	ScaleFill    = "FILL"
	ScaleFit     = "FIT"
	ScaleTile    = "TILE"
	ScaleStretch = "STRETCH"
)

// Paint is a fill or stroke applied to a node.
type Paint struct {
	Type    PaintType `json:"type"`
	Visible bool      `json:"visible"`
	Opacity float64   `json:"opacity"`

	// SOLID only.
	Color *Color `json:"color,omitempty"`

	// Gradient variants only.
	GradientHandlePositions []Vector    `json:"gradientHandlePositions,omitempty"`
	GradientStops           []ColorStop `json:"gradientStops,omitempty"`

	// IMAGE only.
	ImageRef       string        `json:"imageRef,omitempty"`
	ScaleMode      string        `json:"scaleMode,omitempty"`
	ImageTransform [][]float64   `json:"imageTransform,omitempty"`
	Filters        *ImageFilters `json:"filters,omitempty"`

	BlendMode string `json:"blendMode,omitempty"`
}

// UnmarshalJSON applies paint defaults: visible and fully opaque unless the
// payload says otherwise.
func (p *Paint) UnmarshalJSON(data []byte) error {
	type alias Paint
	aux := struct {
		Visible *bool    `json:"visible"`
		Opacity *float64 `json:"opacity"`
		*alias
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Visible = aux.Visible == nil || *aux.Visible
	p.Opacity = 1
	if aux.Opacity != nil {
		p.Opacity = *aux.Opacity
	}
	return nil
}

// EffectType identifies the variant of a visual effect.
type EffectType string

// Effect types returned by the Figma API.
const (
	EffectDropShadow     EffectType = "DROP_SHADOW"
	EffectInnerShadow    EffectType = "INNER_SHADOW"
	EffectLayerBlur      EffectType = "LAYER_BLUR"
	EffectBackgroundBlur EffectType = "BACKGROUND_BLUR"
)

// Effect is a shadow or blur applied to a node.
type Effect struct {
	Type    EffectType `json:"type"`
	Visible bool       `json:"visible"`

	Radius float64 `json:"radius,omitempty"`

	// Shadow variants only.
	Color                *Color  `json:"color,omitempty"`
	Offset               *Vector `json:"offset,omitempty"`
	Spread               float64 `json:"spread,omitempty"`
	ShowShadowBehindNode bool    `json:"showShadowBehindNode,omitempty"`

	// Blur variants only.
	BlurType string `json:"blurType,omitempty"`

	BlendMode string `json:"blendMode,omitempty"`
}

// UnmarshalJSON applies the effect default: visible unless the payload says
// otherwise.
func (e *Effect) UnmarshalJSON(data []byte) error {
	type alias Effect
	aux := struct {
		Visible *bool `json:"visible"`
		*alias
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Visible = aux.Visible == nil || *aux.Visible
	return nil
}

// Color is an RGBA color with channels in the 0-1 range.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Vector is a 2D coordinate or offset.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ColorStop is one stop of a gradient, positioned along the gradient axis
// in the 0-1 range.
type ColorStop struct {
	Color    Color   `json:"color"`
	Position float64 `json:"position"`
}

// ImageFilters are the photo adjustments applicable to IMAGE paints.
// All values are in the -1 to 1 range with 0 meaning no adjustment.
type ImageFilters struct {
	Exposure    float64 `json:"exposure,omitempty"`
	Contrast    float64 `json:"contrast,omitempty"`
	Saturation  float64 `json:"saturation,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Tint        float64 `json:"tint,omitempty"`
	Highlights  float64 `json:"highlights,omitempty"`
	Shadows     float64 `json:"shadows,omitempty"`
}

// Rectangle is an absolute bounding box in canvas coordinates.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the rectangle's area, never negative.
func (r Rectangle) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// TypeStyle carries the typography of a TEXT node. The text color lives in
// the node's fills, not here.
type TypeStyle struct {
	FontFamily          string  `json:"fontFamily,omitempty"`
	FontPostScriptName  string  `json:"fontPostScriptName,omitempty"`
	FontWeight          float64 `json:"fontWeight,omitempty"`
	FontSize            float64 `json:"fontSize,omitempty"`
	Italic              bool    `json:"italic,omitempty"`
	LineHeightPx        float64 `json:"lineHeightPx,omitempty"`
	LineHeightPercent   float64 `json:"lineHeightPercent,omitempty"`
	LineHeightUnit      string  `json:"lineHeightUnit,omitempty"`
	LetterSpacing       float64 `json:"letterSpacing,omitempty"`
	TextAlignHorizontal string  `json:"textAlignHorizontal,omitempty"`
	TextAlignVertical   string  `json:"textAlignVertical,omitempty"`
	TextCase            string  `json:"textCase,omitempty"`
	TextDecoration      string  `json:"textDecoration,omitempty"`
	TextAutoResize      string  `json:"textAutoResize,omitempty"`
}

// ComponentProperty describes one property definition on a component.
type ComponentProperty struct {
	Type           string   `json:"type"`
	DefaultValue   any      `json:"defaultValue,omitempty"`
	VariantOptions []string `json:"variantOptions,omitempty"`
}

// Component is a reusable design element definition.
type Component struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Style is a published style's metadata from the file-level styles table.
// Values are not carried here; they live on the nodes referencing the style.
type Style struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	StyleType   string `json:"styleType"`
	Description string `json:"description,omitempty"`
}

// FileResponse is the payload of GET /v1/files/{key}.
type FileResponse struct {
	Name          string               `json:"name"`
	LastModified  string               `json:"lastModified"`
	ThumbnailURL  string               `json:"thumbnailUrl,omitempty"`
	Version       string               `json:"version"`
	Document      *Node                `json:"document"`
	Components    map[string]Component `json:"components,omitempty"`
	Styles        map[string]Style     `json:"styles,omitempty"`
	SchemaVersion int                  `json:"schemaVersion"`
	Role          string               `json:"role,omitempty"`
	EditorType    string               `json:"editorType,omitempty"`
}

// NodesResponse is the payload of GET /v1/files/{key}/nodes?ids=...
type NodesResponse struct {
	Name         string               `json:"name"`
	LastModified string               `json:"lastModified"`
	Version      string               `json:"version"`
	Nodes        map[string]*NodeData `json:"nodes"`
}

// NodeData wraps one requested node with its component and style tables.
type NodeData struct {
	Document   *Node                `json:"document"`
	Components map[string]Component `json:"components,omitempty"`
	Styles     map[string]Style     `json:"styles,omitempty"`
}

// ImageFillsResponse is the payload of GET /v1/files/{key}/images, mapping
// each imageRef to a downloadable URL.
type ImageFillsResponse struct {
	Error  bool `json:"error,omitempty"`
	Status int  `json:"status,omitempty"`
	Meta   struct {
		Images map[string]string `json:"images"`
	} `json:"meta"`
}

// RenderResponse is the payload of GET /v1/images/{key}?ids=..., mapping
// each node ID to a rendered export URL. Nodes that failed to render map
// to an empty string.
type RenderResponse struct {
	Err    string            `json:"err,omitempty"`
	Images map[string]string `json:"images"`
}

// MeResponse is the payload of GET /v1/me, the identity behind an access
// token.
type MeResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Handle string `json:"handle"`
	ImgURL string `json:"img_url,omitempty"`
}
