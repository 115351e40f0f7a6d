package models

// Contact identifies who owns the dashboard deployment.
type Contact struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// Info is the static metadata served by GET /api/info, loaded from
// info.yaml with embedded defaults.
type Info struct {
	Title     string   `json:"title" yaml:"title"`
	Subtitle  string   `json:"subtitle" yaml:"subtitle"`
	Contact   Contact  `json:"contact" yaml:"contact"`
	Notes     []string `json:"notes" yaml:"notes"`
	Features  []string `json:"features" yaml:"features"`
	TechStack []string `json:"tech_stack" yaml:"tech_stack"`
}
