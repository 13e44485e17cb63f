package entity

import "fmt"

// Info summarises an entity for display and indexing.
type Info struct {
	ReferencePath  string `json:"reference_path"`
	Online         bool   `json:"online"`
	IsSequence     bool   `json:"is_sequence"`
	Label          string `json:"label,omitempty"`
	HasRange       bool   `json:"has_range"`
	StartFrame     int    `json:"start_frame"`
	EndFrame       int    `json:"end_frame"`
	AvailableCount int    `json:"nb_frames_available"`
	MissingFrames  []int  `json:"missing_frames,omitempty"`
	// AvailableFrames is only filled for sequences.
	AvailableFrames []int `json:"available_frames,omitempty"`
}

// MissingCount returns the number of gaps between StartFrame and EndFrame.
func (i Info) MissingCount() int { return len(i.MissingFrames) }

// Info reports online status, frame bounds, and the frames missing between
// the first and last frame. The label reads "name.[start-end].ext".
func (s *Sequence) Info() Info {
	info := Info{ReferencePath: s.ReferencePath(), IsSequence: true}
	scan := s.Scan()
	if len(scan.Paths) == 0 {
		return info
	}
	info.Online = true
	if len(scan.Frames) == 0 {
		return info
	}

	start, end := scan.Frames[0], scan.Frames[len(scan.Frames)-1]
	present := make(map[int]struct{}, len(scan.Frames))
	for _, f := range scan.Frames {
		if _, dup := present[f]; !dup {
			info.AvailableFrames = append(info.AvailableFrames, f)
		}
		present[f] = struct{}{}
	}
	for f := start; f < end; f++ {
		if _, ok := present[f]; !ok {
			info.MissingFrames = append(info.MissingFrames, f)
		}
	}

	info.HasRange = true
	info.StartFrame = start
	info.EndFrame = end
	info.AvailableCount = len(scan.Paths)
	info.Label = fmt.Sprintf("%s.[%d-%d]%s", s.Basename(), start, end, s.ext)
	return info
}
