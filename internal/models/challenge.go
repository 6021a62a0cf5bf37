package models

// ChallengeRecord is the serialized form of a challenge handed to the
// request layer. Variant-specific fields are populated only by the
// variants that use them; the timed block only by the timed wrapper.
type ChallengeRecord struct {
	ChallengeID string   `json:"challenge_id"`
	AnimalID    int64    `json:"animal_id"`
	Type        string   `json:"type"`
	Difficulty  int      `json:"difficulty"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`

	// Variant extras
	AudioFile    string `json:"audio_file,omitempty"`
	ImageFile    string `json:"image_file,omitempty"`
	AnimalName   string `json:"animal_name,omitempty"`
	AnimalImage  string `json:"animal_image,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Hint         string `json:"hint,omitempty"`

	// Timing metadata, present when the challenge is wrapped in a timer
	Timed            bool    `json:"timed,omitempty"`
	TimeLimitSeconds int     `json:"time_limit_seconds,omitempty"`
	TimerStarted     bool    `json:"timer_started,omitempty"`
	TimeElapsed      float64 `json:"time_elapsed,omitempty"`
	TimeRemaining    float64 `json:"time_remaining,omitempty"`
	IsTimedOut       bool    `json:"is_timed_out,omitempty"`
}

// TimedResult is the full validation outcome of a timed challenge.
// CorrectAnswer and TimeoutMessage are populated only when the answer
// did not score.
type TimedResult struct {
	IsCorrect      bool    `json:"is_correct"`
	TimeTaken      float64 `json:"time_taken"`
	TimedOut       bool    `json:"timed_out"`
	TimeRemaining  float64 `json:"time_remaining"`
	TimeLimit      int     `json:"time_limit"`
	CorrectAnswer  string  `json:"correct_answer,omitempty"`
	TimeoutMessage string  `json:"timeout_message,omitempty"`
}
