package frost

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateThresholdParameters(t *testing.T) {
	tv := NewDefaultThresholdValidator()

	tests := []struct {
		name       string
		n, t       int
		valid      bool
		level      SecurityLevel
		bft        bool
		hasWarning bool
	}{
		{name: "3 of 5", n: 5, t: 3, valid: true, level: SecurityLevelHigh, bft: true},
		{name: "1 of 3", n: 3, t: 1, valid: true, level: SecurityLevelLow, hasWarning: true},
		{name: "2 of 2", n: 2, t: 2, valid: true, level: SecurityLevelHigh, bft: true, hasWarning: true},
		{name: "zero threshold", n: 5, t: 0, level: SecurityLevelLow},
		{name: "no participants", n: 0, t: 1, level: SecurityLevelLow},
		{name: "threshold above n", n: 3, t: 4, level: SecurityLevelLow},
		{name: "too many participants", n: maxParticipants + 1, t: 2, level: SecurityLevelLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tv.ValidateThresholdParameters(tt.n, tt.t)
			require.Equal(t, tt.valid, result.Valid, "errors: %v", result.Errors)
			require.Equal(t, tt.level, result.SecurityLevel)
			require.Equal(t, tt.bft, result.ByzantineFaultTolerance)
			if !tt.valid {
				require.NotEmpty(t, result.Errors)
			}
			if tt.hasWarning {
				require.NotEmpty(t, result.Warnings)
			}
		})
	}
}

func TestValidateParticipants(t *testing.T) {
	cs := Ed25519SHA512()

	require.True(t, ValidateParticipants(identifiers(cs, 1, 2, 3)).Valid)

	result := ValidateParticipants(nil)
	require.False(t, result.Valid)

	result = ValidateParticipants(identifiers(cs, 1, 2, 2))
	require.False(t, result.Valid)
	require.Contains(t, result.Errors[0], cs.MustIdentifier(2).String())

	result = ValidateParticipants([]Identifier{cs.MustIdentifier(1), {}})
	require.False(t, result.Valid)
}

func TestValidateConfiguration(t *testing.T) {
	cs := Secp256k1SHA256()

	result := ValidateConfiguration(cs, 3, identifiers(cs, 1, 2, 3, 4, 5))
	require.True(t, result.Valid)
	require.Equal(t, SecurityLevelHigh, result.SecurityLevel)

	result = ValidateConfiguration(cs, 4, identifiers(cs, 1, 2, 3))
	require.False(t, result.Valid)
	require.Equal(t, SecurityLevelLow, result.SecurityLevel)

	result = ValidateConfiguration(nil, 2, identifiers(cs, 1, 2))
	require.False(t, result.Valid)
}

func TestConfigurationValidate(t *testing.T) {
	valid := &Configuration{Ciphersuite: BabyJubjubBlake512ID, Threshold: 2, ParticipantCount: 3}
	require.NoError(t, valid.Validate())
	cs, err := valid.Suite()
	require.NoError(t, err)
	require.Same(t, BabyJubjubBlake512(), cs)

	unknown := &Configuration{Ciphersuite: "FROST-P256-SHA256-v1", Threshold: 2, ParticipantCount: 3}
	require.ErrorIs(t, unknown.Validate(), ErrCiphersuiteMismatch)

	badThreshold := &Configuration{Ciphersuite: Ed25519SHA512ID, Threshold: 0, ParticipantCount: 3}
	require.ErrorIs(t, badThreshold.Validate(), ErrInvalidThreshold)
}

func TestConfigurationValidator(t *testing.T) {
	cv := NewDefaultConfigurationValidator()

	for _, id := range SupportedCiphersuites() {
		require.True(t, cv.ValidateCiphersuite(id).Valid, id)
	}
	require.False(t, cv.ValidateCiphersuite("").Valid)
	require.False(t, cv.ValidateCiphersuite("FROST-P256-SHA256-v1").Valid)

	require.Equal(t, SecurityLevelMedium, cv.ValidateCiphersuite(BabyJubjubBlake512ID).SecurityLevel)

	result := cv.ValidateCompleteConfiguration(&Configuration{Ciphersuite: Ed25519SHA512ID, Threshold: 3, ParticipantCount: 5})
	require.True(t, result.Valid)
	require.Equal(t, SecurityLevelHigh, result.SecurityLevel)
	require.True(t, result.ByzantineFaultTolerance)

	result = cv.ValidateCompleteConfiguration(&Configuration{Ciphersuite: BabyJubjubBlake512ID, Threshold: 3, ParticipantCount: 5})
	require.True(t, result.Valid)
	require.Equal(t, SecurityLevelMedium, result.SecurityLevel)

	require.False(t, cv.ValidateCompleteConfiguration(nil).Valid)
}

func TestCheckCompatibility(t *testing.T) {
	ccc := NewConfigurationCompatibilityChecker()
	base := &Configuration{Ciphersuite: Ed25519SHA512ID, Threshold: 3, ParticipantCount: 5}

	result := ccc.CheckCompatibility(base, base)
	require.True(t, result.Valid)
	require.Empty(t, result.Warnings)

	result = ccc.CheckCompatibility(base, &Configuration{Ciphersuite: Secp256k1SHA256ID, Threshold: 3, ParticipantCount: 5})
	require.False(t, result.Valid)

	result = ccc.CheckCompatibility(base, &Configuration{Ciphersuite: Ed25519SHA512ID, Threshold: 4, ParticipantCount: 7})
	require.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	require.Len(t, result.Recommendations, 1)

	require.False(t, ccc.CheckCompatibility(nil, base).Valid)
}

func TestAssessSecurity(t *testing.T) {
	a := AssessSecurity(5, 4)
	require.Equal(t, SecurityLevelHigh, a.OverallRating)
	require.True(t, a.ByzantineFaultTolerance)
	require.Equal(t, 1, a.FaultTolerance)
	require.Equal(t, 4, a.AttackResistance)

	a = AssessSecurity(10, 3)
	require.Equal(t, SecurityLevelLow, a.OverallRating)
	require.False(t, a.ByzantineFaultTolerance)
	require.NotEmpty(t, a.SecurityRecommendations)

	require.Equal(t, SecurityLevelLow, AssessSecurity(3, 4).OverallRating)
	require.Equal(t, SecurityLevelLow, AssessSecurity(0, 1).OverallRating)

	require.Equal(t, SecurityLevelLow, minSecurityLevel(SecurityLevelHigh, SecurityLevelLow))
	require.Equal(t, SecurityLevelMedium, getMinimumSecurityLevel(nil))
}
