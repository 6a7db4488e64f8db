package rules

// Config holds the router confidences that are tunable from configuration.
// Check-specific confidences live in the check tables.
type Config struct {
	Attachment          float64 `mapstructure:"attachment"`
	SenderMatched       float64 `mapstructure:"sender_matched"`
	SenderDefault       float64 `mapstructure:"sender_default"`
	ThreadStep          float64 `mapstructure:"thread_step"`
	PatternMinimum      float64 `mapstructure:"pattern_minimum"`
	PatternThreadBonus  float64 `mapstructure:"pattern_thread_bonus"`
	PatternCap          float64 `mapstructure:"pattern_cap"`
	Topic               float64 `mapstructure:"topic"`
	TopicThreadBonus    float64 `mapstructure:"topic_thread_bonus"`
	FallbackMulti       float64 `mapstructure:"fallback_multi"`
	FallbackSingle      float64 `mapstructure:"fallback_single"`
	FallbackOther       float64 `mapstructure:"fallback_other"`
	FallbackNone        float64 `mapstructure:"fallback_none"`
	FallbackThreadBonus float64 `mapstructure:"fallback_thread_bonus"`
	Error               float64 `mapstructure:"error"`
	LargeAmount         float64 `mapstructure:"large_amount"`
}

// DefaultConfig returns the standard router confidences
func DefaultConfig() Config {
	return Config{
		Attachment:          0.95,
		SenderMatched:       0.90,
		SenderDefault:       0.85,
		ThreadStep:          0.02,
		PatternMinimum:      0.50,
		PatternThreadBonus:  0.05,
		PatternCap:          0.95,
		Topic:               0.80,
		TopicThreadBonus:    0.05,
		FallbackMulti:       0.60,
		FallbackSingle:      0.55,
		FallbackOther:       0.50,
		FallbackNone:        0.40,
		FallbackThreadBonus: 0.05,
		Error:               0.30,
		LargeAmount:         10000,
	}
}
