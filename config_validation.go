package frost

import (
	"fmt"
)

// Configuration is the parameter set of one key generation or signing
// group.
type Configuration struct {
	Ciphersuite      string `json:"ciphersuite" mapstructure:"ciphersuite"`
	Threshold        int    `json:"threshold" mapstructure:"threshold"`
	ParticipantCount int    `json:"participants" mapstructure:"participants"`
}

// Suite resolves the configured ciphersuite.
func (c *Configuration) Suite() (*Ciphersuite, error) {
	return CiphersuiteByID(c.Ciphersuite)
}

// Validate runs the default ConfigurationValidator and converts a failed
// result into an error.
func (c *Configuration) Validate() error {
	result := NewDefaultConfigurationValidator().ValidateCompleteConfiguration(c)
	if result.Valid {
		return nil
	}
	if _, err := c.Suite(); err != nil {
		return err
	}
	return ErrInvalidThreshold.WithDetails(fmt.Sprintf("%v", result.Errors))
}

// ConfigurationValidator provides validation for FROST configuration parameters
type ConfigurationValidator struct {
	supportedCiphersuites map[string]bool
}

// NewDefaultConfigurationValidator creates a validator accepting every
// built-in ciphersuite.
func NewDefaultConfigurationValidator() *ConfigurationValidator {
	supported := make(map[string]bool)
	for _, id := range SupportedCiphersuites() {
		supported[id] = true
	}
	return &ConfigurationValidator{supportedCiphersuites: supported}
}

// ValidateCiphersuite validates that a ciphersuite is supported
func (cv *ConfigurationValidator) ValidateCiphersuite(id string) *ValidationResult {
	result := newValidationResult()

	if id == "" {
		result.fail("ciphersuite cannot be empty")
		return result
	}

	if !cv.supportedCiphersuites[id] {
		result.fail(fmt.Sprintf("unsupported ciphersuite: %s", id))
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("use a supported ciphersuite: %v", SupportedCiphersuites()))
		return result
	}

	switch id {
	case Ed25519SHA512ID:
		result.SecurityLevel = SecurityLevelHigh
		result.Recommendations = append(result.Recommendations, "ed25519 signatures verify with standard RFC 8032 verifiers")
	case Secp256k1SHA256ID:
		result.SecurityLevel = SecurityLevelHigh
	case BabyJubjubBlake512ID:
		result.SecurityLevel = SecurityLevelMedium
		result.Recommendations = append(result.Recommendations, "baby jubjub targets zk circuits; prefer ed25519 outside them")
	}

	return result
}

// ValidateCompleteConfiguration validates a complete FROST configuration.
// Failures are reported to the audit handler.
func (cv *ConfigurationValidator) ValidateCompleteConfiguration(cfg *Configuration) *ValidationResult {
	result := newValidationResult()
	if cfg == nil {
		result.fail("configuration cannot be nil")
		result.SecurityLevel = SecurityLevelLow
		return result
	}

	suiteResult := cv.ValidateCiphersuite(cfg.Ciphersuite)
	result.merge(suiteResult)

	thresholdResult := NewDefaultThresholdValidator().ValidateThresholdParameters(cfg.ParticipantCount, cfg.Threshold)
	result.merge(thresholdResult)

	result.SecurityLevel = getMinimumSecurityLevel([]SecurityLevel{
		suiteResult.SecurityLevel,
		thresholdResult.SecurityLevel,
	})
	result.ByzantineFaultTolerance = thresholdResult.ByzantineFaultTolerance

	if result.Valid && result.SecurityLevel == SecurityLevelHigh {
		result.Recommendations = append(result.Recommendations, "configuration meets high security standards")
	} else if result.Valid && result.SecurityLevel == SecurityLevelMedium {
		result.Recommendations = append(result.Recommendations, "configuration is acceptable but could be improved")
	}

	if !result.Valid {
		emitValidationFailure("configuration", cfg, result)
	}
	return result
}

// getMinimumSecurityLevel returns the minimum security level from a slice
func getMinimumSecurityLevel(levels []SecurityLevel) SecurityLevel {
	if len(levels) == 0 {
		return SecurityLevelMedium
	}

	minLevel := SecurityLevelHigh
	for _, level := range levels {
		minLevel = minSecurityLevel(minLevel, level)
	}
	return minLevel
}

// ConfigurationCompatibilityChecker checks whether a group can move from
// one configuration to another without a new key.
type ConfigurationCompatibilityChecker struct{}

// NewConfigurationCompatibilityChecker creates a new compatibility checker
func NewConfigurationCompatibilityChecker() *ConfigurationCompatibilityChecker {
	return &ConfigurationCompatibilityChecker{}
}

// CheckCompatibility compares two configurations. A different ciphersuite
// is an error; threshold and size changes are reported as warnings because
// they require fresh shares.
func (ccc *ConfigurationCompatibilityChecker) CheckCompatibility(oldConfig, newConfig *Configuration) *ValidationResult {
	result := newValidationResult()

	if oldConfig == nil || newConfig == nil {
		result.fail("configurations cannot be nil")
		return result
	}

	if oldConfig.Ciphersuite == "" || newConfig.Ciphersuite == "" {
		result.fail("ciphersuites cannot be empty for compatibility check")
	} else if oldConfig.Ciphersuite != newConfig.Ciphersuite {
		result.fail(fmt.Sprintf("ciphersuite mismatch: %s -> %s", oldConfig.Ciphersuite, newConfig.Ciphersuite))
	}

	if oldConfig.Threshold != newConfig.Threshold {
		if newConfig.Threshold > oldConfig.Threshold {
			result.Warnings = append(result.Warnings, "threshold increased - existing shares must be regenerated")
		} else {
			result.Warnings = append(result.Warnings, "threshold decreased - reduced security")
		}
	}

	if oldConfig.ParticipantCount != newConfig.ParticipantCount {
		if newConfig.ParticipantCount > oldConfig.ParticipantCount {
			result.Recommendations = append(result.Recommendations, "participant count increased - improved decentralization")
		} else {
			result.Warnings = append(result.Warnings, "participant count decreased - reduced decentralization")
		}
	}

	return result
}

func emitValidationFailure(validationType string, cfg *Configuration, result *ValidationResult) {
	event := NewAuditEventBuilder(AuditEventValidationFailure, ReasonValidationError).
		WithCiphersuite(cfg.Ciphersuite).
		WithThreshold(cfg.Threshold, cfg.ParticipantCount).
		WithError(fmt.Errorf("%v", result.Errors)).
		BuildValidationFailure(validationType, fmt.Sprintf("%v", result.Errors), map[string]interface{}{
			"ciphersuite":  cfg.Ciphersuite,
			"threshold":    cfg.Threshold,
			"participants": cfg.ParticipantCount,
		})
	auditHandler().OnValidationFailure(event)
}
