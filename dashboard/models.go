package dashboard

// Render-ready payload types. The frontend draws whatever arrives here; no
// computation happens past this point, only labels and formatting.

// Chart types understood by the renderer.
const (
	ChartBar        = "bar"
	ChartStackedBar = "stacked_bar"
	ChartGroupedBar = "grouped_bar"
	ChartPie        = "pie"
	ChartDonut      = "donut"
	ChartScatter    = "scatter"
	ChartTreemap    = "treemap"
	ChartArea       = "area"
)

// Point is a single categorical data point. Text carries the pre-formatted
// data label (e.g. "12.34%") shown on the chart.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Text  string  `json:"text,omitempty"`
}

// Series is one named data series.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// XYPoint is a single scatter point.
type XYPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// XYSeries is one named scatter series.
type XYSeries struct {
	Name   string    `json:"name"`
	Points []XYPoint `json:"points"`
}

// Chart describes one chart slot of a view.
type Chart struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	XLabel        string     `json:"x_label,omitempty"`
	YLabel        string     `json:"y_label,omitempty"`
	Series        []Series   `json:"series,omitempty"`
	ScatterSeries []XYSeries `json:"scatter_series,omitempty"`
}

// Metric is one formatted KPI for the summary row.
type Metric struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is the full payload for one dashboard page.
type View struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Metrics  []Metric `json:"metrics"`
	Charts   []Chart  `json:"charts"`
	Warnings []string `json:"warnings,omitempty"`
}

// FilterOptions lists the selectable values for every filter control plus
// the default date-range bounds.
type FilterOptions struct {
	LoanTypes          []string `json:"loan_types"`
	EmploymentStatuses []string `json:"employment_statuses"`
	Genders            []string `json:"genders"`
	Devices            []string `json:"devices"`
	States             []string `json:"states"`
	MinApplicationDate string   `json:"min_application_date,omitempty"`
	MaxApplicationDate string   `json:"max_application_date,omitempty"`
}
