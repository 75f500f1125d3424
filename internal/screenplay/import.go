package screenplay

import "strings"

// ImportScript splits a full script text into ordered scenes. Every line
// that parses as a scene heading starts a new scene; everything up to the
// next heading becomes that scene's body. Text before the first heading
// (title page, cast list) is discarded.
func ImportScript(text string) []Scene {
	lines := strings.Split(text, "\n")

	var scenes []Scene
	var body []string

	flush := func() {
		if len(scenes) == 0 {
			return
		}
		scenes[len(scenes)-1].Body = strings.TrimSpace(strings.Join(body, "\n"))
		body = body[:0]
	}

	for _, line := range lines {
		h := ParseHeading(line)
		if h == nil {
			if len(scenes) > 0 {
				body = append(body, line)
			}
			continue
		}
		flush()
		scenes = append(scenes, Scene{
			Index:      len(scenes),
			Number:     h.Number,
			Setting:    h.Setting,
			Location:   h.Location,
			TimeOfDay:  h.TimeOfDay,
			IsOmitted:  h.IsOmitted,
			RawText:    h.Raw,
			HeadingDay: h.StoryDay,
		})
	}
	flush()

	return scenes
}
