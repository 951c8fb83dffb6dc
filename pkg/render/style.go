package render

// Style defaults
const (
	DefaultNodeRadius      = 5.0
	DefaultNodeStrokeWidth = 5.0
	DefaultLinkWidth       = 1.0
	DefaultWidthMultiplier = 1.5
	DefaultDimmedOpacity   = 0.2
	DefaultOpacity         = 1.0
	DefaultNodeFill        = "#eee"
	DefaultLinkStroke      = "#888888"
	DefaultLabelRotation   = -30.0
	DefaultLabelOffset     = -10.0
)

// StyleConfig holds the constants the highlight rules are built from
type StyleConfig struct {
	NodeRadius      float64 `yaml:"node_radius" validate:"gt=0"`
	NodeStrokeWidth float64 `yaml:"node_stroke_width" validate:"gte=0"`
	LinkWidth       float64 `yaml:"link_width" validate:"gt=0"`
	WidthMultiplier float64 `yaml:"width_multiplier" validate:"gte=1"`
	DimmedOpacity   float64 `yaml:"dimmed_opacity" validate:"gte=0,lte=1"`
	Opacity         float64 `yaml:"opacity" validate:"gte=0,lte=1"`
	NodeFill        string  `yaml:"node_fill"`
	LinkStroke      string  `yaml:"link_stroke"`
	LabelRotation   float64 `yaml:"label_rotation"`
	LabelOffset     float64 `yaml:"label_offset"`
}

// DefaultStyle returns the standard look
func DefaultStyle() StyleConfig {
	return StyleConfig{
		NodeRadius:      DefaultNodeRadius,
		NodeStrokeWidth: DefaultNodeStrokeWidth,
		LinkWidth:       DefaultLinkWidth,
		WidthMultiplier: DefaultWidthMultiplier,
		DimmedOpacity:   DefaultDimmedOpacity,
		Opacity:         DefaultOpacity,
		NodeFill:        DefaultNodeFill,
		LinkStroke:      DefaultLinkStroke,
		LabelRotation:   DefaultLabelRotation,
		LabelOffset:     DefaultLabelOffset,
	}
}

// NodeStyle is the computed look of one node
type NodeStyle struct {
	Radius      float64 `json:"r"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// LinkStyle is the computed look of one link
type LinkStyle struct {
	Stroke  string  `json:"stroke"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
	Dashed  bool    `json:"dashed,omitempty"`
}

// Styles maps node and link keys to their computed looks
type Styles struct {
	Nodes map[string]NodeStyle `json:"nodes"`
	Links map[string]LinkStyle `json:"links"`
}
