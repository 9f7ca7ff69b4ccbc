package director

// Timeline is the sequence of snapshots published during a recording
type Timeline struct {
	Version    string          `yaml:"version"`
	FPS        int             `yaml:"fps"`
	SceneCount int             `yaml:"scene_count"`
	Frames     []TimelineFrame `yaml:"frames"`
}

// TimelineFrame is one published snapshot
type TimelineFrame struct {
	Frame    int     `yaml:"frame"`
	Time     float64 `yaml:"time"` // Seconds from start
	Progress float64 `yaml:"progress"`
	Target   float64 `yaml:"target"`
	Scene    int     `yaml:"scene"`
	Snapped  bool    `yaml:"snapped"`
	Entered  int     `yaml:"entered"`  // -1 if no scene was entered on this frame
	Entering int     `yaml:"entering"` // -1 outside entrance windows
}

// Entrances lists every (frame, scene) pair where a scene was entered
func (tl *Timeline) Entrances() [][2]int {
	var out [][2]int
	for _, f := range tl.Frames {
		if f.Entered >= 0 {
			out = append(out, [2]int{f.Frame, f.Entered})
		}
	}
	return out
}
