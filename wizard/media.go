package wizard

// MediaPolicy controls whether a draft may be confirmed without attachments.
type MediaPolicy int

const (
	// MediaAny allows a draft with no attachments at all.
	MediaAny MediaPolicy = iota
	// MediaRequireOne requires at least one photo or a video.
	MediaRequireOne
)

// PolicyFromString maps a config value to a MediaPolicy, defaulting to
// MediaAny for unknown input. Config validation rejects unknown values
// earlier, the default here is a safety net.
func PolicyFromString(s string) MediaPolicy {
	if s == "require_one" {
		return MediaRequireOne
	}
	return MediaAny
}

// Media accumulates the attachments of one draft: at most one video and a
// bounded list of photos. It is not safe for concurrent use, the session
// store serializes access per user.
type Media struct {
	video     string
	photos    []string
	maxPhotos int
}

// NewMedia returns an empty accumulator capped at maxPhotos photos.
func NewMedia(maxPhotos int) *Media {
	return &Media{maxPhotos: maxPhotos}
}

// AddVideo records the video reference. A second video is rejected with
// ErrVideoAlreadySet and the stored reference is kept.
func (m *Media) AddVideo(ref string) error {
	if m.video != "" {
		return ErrVideoAlreadySet
	}
	m.video = ref
	return nil
}

// AddPhoto appends a photo reference. Once the cap is reached every further
// upload fails with ErrPhotoLimit and the accumulator stays unchanged.
func (m *Media) AddPhoto(ref string) error {
	if len(m.photos) >= m.maxPhotos {
		return ErrPhotoLimit
	}
	m.photos = append(m.photos, ref)
	return nil
}

// Finish checks the accumulated set against the policy.
func (m *Media) Finish(policy MediaPolicy) error {
	if policy == MediaRequireOne && m.video == "" && len(m.photos) == 0 {
		return ErrMediaIncomplete
	}
	return nil
}

// Reset drops all accumulated attachments, keeping the cap.
func (m *Media) Reset() {
	m.video = ""
	m.photos = nil
}

// Video returns the stored video reference, empty when none.
func (m *Media) Video() string { return m.video }

// Photos returns a copy of the stored photo references.
func (m *Media) Photos() []string {
	if len(m.photos) == 0 {
		return nil
	}
	out := make([]string, len(m.photos))
	copy(out, m.photos)
	return out
}

// PhotoCount reports how many photos are stored.
func (m *Media) PhotoCount() int { return len(m.photos) }

// MaxPhotos reports the configured cap.
func (m *Media) MaxPhotos() int { return m.maxPhotos }

// Empty reports whether nothing has been attached yet.
func (m *Media) Empty() bool { return m.video == "" && len(m.photos) == 0 }
