package frost

import (
	"fmt"
	"math"
)

// SecurityLevel represents the security level of threshold parameters
type SecurityLevel string

const (
	SecurityLevelLow    SecurityLevel = "low"
	SecurityLevelMedium SecurityLevel = "medium"
	SecurityLevelHigh   SecurityLevel = "high"
)

// Byzantine fault tolerance constants
const (
	DefaultByzantineRatio = 2.0 / 3.0 // 2/3 for Byzantine fault tolerance
)

// ValidationResult contains the result of parameter validation
type ValidationResult struct {
	Valid                   bool          `json:"valid"`
	SecurityLevel           SecurityLevel `json:"security_level"`
	ByzantineFaultTolerance bool          `json:"byzantine_fault_tolerance"`
	Warnings                []string      `json:"warnings,omitempty"`
	Errors                  []string      `json:"errors,omitempty"`
	Recommendations         []string      `json:"recommendations,omitempty"`
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:           true,
		SecurityLevel:   SecurityLevelMedium,
		Warnings:        []string{},
		Errors:          []string{},
		Recommendations: []string{},
	}
}

func (r *ValidationResult) fail(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// merge folds other into r. The security level is left to the caller.
func (r *ValidationResult) merge(other *ValidationResult) {
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Recommendations = append(r.Recommendations, other.Recommendations...)
}

// ThresholdValidator grades threshold parameters. Only parameters the
// protocol cannot run with are errors; the tunable minimums below produce
// warnings.
type ThresholdValidator struct {
	MinParticipants     int     `json:"min_participants"`
	MinThreshold        int     `json:"min_threshold"`
	ByzantineRatio      float64 `json:"byzantine_ratio"`       // For Byzantine fault tolerance (typically 2/3)
	RecommendedMinRatio float64 `json:"recommended_min_ratio"` // Minimum recommended threshold ratio
	RecommendedMaxRatio float64 `json:"recommended_max_ratio"` // Maximum recommended threshold ratio
}

// NewDefaultThresholdValidator creates a validator with secure default parameters
func NewDefaultThresholdValidator() *ThresholdValidator {
	return &ThresholdValidator{
		MinParticipants:     3,                     // Minimum for meaningful threshold
		MinThreshold:        2,                     // Minimum threshold value
		ByzantineRatio:      DefaultByzantineRatio, // 2/3 for Byzantine fault tolerance
		RecommendedMinRatio: 0.51,                  // Just over half
		RecommendedMaxRatio: 0.80,                  // Leave room for availability
	}
}

// ValidateThresholdParameters validates threshold and participant parameters
func (tv *ThresholdValidator) ValidateThresholdParameters(participantCount, threshold int) *ValidationResult {
	result := newValidationResult()

	// Protocol limits
	if threshold <= 0 {
		result.fail("threshold must be positive")
	}
	if participantCount <= 0 {
		result.fail("participant count must be positive")
	}
	if participantCount > maxParticipants {
		result.fail(fmt.Sprintf("participant count exceeds maximum of %d", maxParticipants))
	}
	if threshold > participantCount {
		result.fail("threshold cannot exceed participant count")
	}
	if !result.Valid {
		result.SecurityLevel = SecurityLevelLow
		return result
	}

	// Advisory minimums
	if participantCount < tv.MinParticipants {
		result.Warnings = append(result.Warnings, fmt.Sprintf("fewer than %d participants limits fault tolerance", tv.MinParticipants))
	}
	if threshold < tv.MinThreshold {
		result.Warnings = append(result.Warnings, fmt.Sprintf("threshold below %d lets a single participant sign", tv.MinThreshold))
	}

	// Calculate ratios for security analysis
	thresholdRatio := float64(threshold) / float64(participantCount)

	byzantineThreshold := int(float64(participantCount) * tv.ByzantineRatio)
	if threshold >= byzantineThreshold {
		result.ByzantineFaultTolerance = true
		result.SecurityLevel = SecurityLevelHigh
	}

	if thresholdRatio < tv.RecommendedMinRatio {
		result.SecurityLevel = SecurityLevelLow
		result.Warnings = append(result.Warnings, "threshold ratio is below recommended minimum for security")
		result.Recommendations = append(result.Recommendations, fmt.Sprintf("consider increasing threshold to at least %d", int(math.Ceil(float64(participantCount)*tv.RecommendedMinRatio))))
	} else if thresholdRatio > tv.RecommendedMaxRatio {
		result.Warnings = append(result.Warnings, "threshold ratio is high, may affect availability")
		result.Recommendations = append(result.Recommendations, "consider if such a high threshold is necessary for your use case")
	}

	if threshold == 1 {
		result.SecurityLevel = SecurityLevelLow
		result.Warnings = append(result.Warnings, "threshold of 1 provides no fault tolerance")
	}

	if threshold == participantCount {
		result.Warnings = append(result.Warnings, "threshold equals participant count - no fault tolerance")
		result.Recommendations = append(result.Recommendations, "consider reducing threshold to allow for node failures")
	}

	optimalMin := int(math.Ceil(float64(participantCount) * tv.RecommendedMinRatio))
	optimalMax := int(math.Ceil(float64(participantCount) * tv.RecommendedMaxRatio))
	if threshold < optimalMin || threshold > optimalMax {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("optimal threshold range for %d participants is %d-%d", participantCount, optimalMin, optimalMax))
	}

	return result
}

// ValidateParticipants rejects empty, zero and repeated identifiers.
func ValidateParticipants(participants []Identifier) *ValidationResult {
	result := newValidationResult()

	if len(participants) == 0 {
		result.fail("participant list cannot be empty")
		return result
	}

	seen := make(map[Identifier]bool, len(participants))
	var duplicates []string
	for _, participant := range participants {
		if participant.IsZero() {
			result.fail("participant identifier cannot be zero")
			continue
		}
		if seen[participant] {
			duplicates = append(duplicates, participant.String())
		}
		seen[participant] = true
	}

	if len(duplicates) > 0 {
		result.fail(fmt.Sprintf("duplicate participants found: %v", duplicates))
	}

	return result
}

// ValidateConfiguration validates a ciphersuite, threshold and identifier
// set together.
func ValidateConfiguration(cs *Ciphersuite, threshold int, participants []Identifier) *ValidationResult {
	result := newValidationResult()

	if cs == nil {
		result.fail("ciphersuite cannot be nil")
		result.SecurityLevel = SecurityLevelLow
		return result
	}

	participantResult := ValidateParticipants(participants)
	result.merge(participantResult)

	thresholdResult := NewDefaultThresholdValidator().ValidateThresholdParameters(len(participants), threshold)
	result.merge(thresholdResult)

	result.SecurityLevel = thresholdResult.SecurityLevel
	if !participantResult.Valid {
		result.SecurityLevel = SecurityLevelLow
	}
	result.ByzantineFaultTolerance = thresholdResult.ByzantineFaultTolerance

	return result
}

// SecurityAssessment provides a detailed security assessment
type SecurityAssessment struct {
	OverallRating           SecurityLevel `json:"overall_rating"`
	ByzantineFaultTolerance bool          `json:"byzantine_fault_tolerance"`
	FaultTolerance          int           `json:"fault_tolerance"`   // Number of nodes that can fail
	AttackResistance        int           `json:"attack_resistance"` // Number of nodes needed for attack
	AvailabilityRisk        string        `json:"availability_risk"` // Risk assessment for availability
	SecurityRecommendations []string      `json:"security_recommendations"`
}

// AssessSecurity provides a comprehensive security assessment
func AssessSecurity(participantCount, threshold int) *SecurityAssessment {
	if participantCount <= 0 || threshold <= 0 {
		return &SecurityAssessment{
			OverallRating:           SecurityLevelLow,
			AvailabilityRisk:        "critical - invalid parameters",
			SecurityRecommendations: []string{"participantCount and threshold must be positive integers"},
		}
	}

	if threshold > participantCount {
		return &SecurityAssessment{
			OverallRating:           SecurityLevelLow,
			AvailabilityRisk:        "critical - threshold exceeds participant count",
			SecurityRecommendations: []string{"threshold cannot exceed participant count"},
		}
	}

	faultTolerance := participantCount - threshold

	assessment := &SecurityAssessment{
		FaultTolerance:          faultTolerance,
		AttackResistance:        threshold,
		SecurityRecommendations: []string{},
	}

	byzantineThreshold := int(float64(participantCount) * DefaultByzantineRatio)
	assessment.ByzantineFaultTolerance = threshold >= byzantineThreshold

	thresholdRatio := float64(threshold) / float64(participantCount)
	switch {
	case thresholdRatio < 0.5:
		assessment.OverallRating = SecurityLevelLow
	case thresholdRatio >= 0.67:
		assessment.OverallRating = SecurityLevelHigh
	default:
		assessment.OverallRating = SecurityLevelMedium
	}

	switch {
	case faultTolerance == 0:
		assessment.AvailabilityRisk = "critical - no fault tolerance"
	case faultTolerance == 1:
		assessment.AvailabilityRisk = "high - single point of failure"
	case faultTolerance <= 3:
		assessment.AvailabilityRisk = "medium - limited fault tolerance"
	default:
		assessment.AvailabilityRisk = "low - good fault tolerance"
	}

	if !assessment.ByzantineFaultTolerance {
		assessment.SecurityRecommendations = append(assessment.SecurityRecommendations,
			"Consider increasing threshold for Byzantine fault tolerance")
	}

	if faultTolerance < 2 {
		assessment.SecurityRecommendations = append(assessment.SecurityRecommendations,
			"Consider adding more participants or reducing threshold for better availability")
	}

	if assessment.OverallRating == SecurityLevelLow {
		assessment.SecurityRecommendations = append(assessment.SecurityRecommendations,
			"Current configuration has low security - review threshold parameters")
	}

	return assessment
}

var securityRank = map[SecurityLevel]int{
	SecurityLevelLow:    1,
	SecurityLevelMedium: 2,
	SecurityLevelHigh:   3,
}

// minSecurityLevel returns the lower of two levels. Unknown levels rank as
// medium.
func minSecurityLevel(level1, level2 SecurityLevel) SecurityLevel {
	rank1, ok := securityRank[level1]
	if !ok {
		rank1 = 2
	}
	rank2, ok := securityRank[level2]
	if !ok {
		rank2 = 2
	}
	if rank1 <= rank2 {
		return level1
	}
	return level2
}
