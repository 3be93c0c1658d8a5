package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pulsarctl/pulsar"
)

// Profile holds the desired device settings for the apply command. Pointer
// fields left unset in the file are skipped.
type Profile struct {
	DPI           *int     `yaml:"dpi,omitempty"`
	Stage         *int     `yaml:"stage,omitempty"`
	MotionSync    *bool    `yaml:"motion_sync,omitempty"`
	AngleSnap     *bool    `yaml:"angle_snap,omitempty"`
	RippleControl *bool    `yaml:"ripple_control,omitempty"`
	LiftOffMM     *float64 `yaml:"lift_off_distance,omitempty"`
	DebounceMs    *int     `yaml:"debounce_ms,omitempty"`
}

func defaultProfile() *Profile {
	dpi := 1600
	stage := 1
	motionSync := true
	return &Profile{
		DPI:        &dpi,
		Stage:      &stage,
		MotionSync: &motionSync,
	}
}

// LoadProfile reads the profile file, creating one with defaults on first
// run.
func LoadProfile(filename string) (*Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			profile := defaultProfile()
			if err := SaveProfile(profile, filename); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
			fmt.Printf("📄 Created default config file: %s\n", filename)
			return profile, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	profile := &Profile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return profile, nil
}

func SaveProfile(profile *Profile, filename string) error {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

// Apply writes every set field to the device, stage before DPI so the DPI
// lands on the selected stage. Returns the number of settings written.
func (p *Profile) Apply(mouse *pulsar.Device) (int, error) {
	applied := 0

	if p.Stage != nil {
		if err := mouse.SetStage(*p.Stage); err != nil {
			return applied, err
		}
		fmt.Printf("✓ DPI stage %d\n", *p.Stage)
		applied++
	}
	if p.DPI != nil {
		if err := mouse.SetDPI(*p.DPI); err != nil {
			return applied, err
		}
		fmt.Printf("✓ DPI %d\n", *p.DPI)
		applied++
	}
	if p.MotionSync != nil {
		if err := mouse.SetMotionSync(*p.MotionSync); err != nil {
			return applied, err
		}
		fmt.Printf("✓ Motion sync %s\n", formatOnOff(*p.MotionSync))
		applied++
	}
	if p.AngleSnap != nil {
		if err := mouse.SetAngleSnap(*p.AngleSnap); err != nil {
			return applied, err
		}
		fmt.Printf("✓ Angle snapping %s\n", formatOnOff(*p.AngleSnap))
		applied++
	}
	if p.RippleControl != nil {
		if err := mouse.SetRippleControl(*p.RippleControl); err != nil {
			return applied, err
		}
		fmt.Printf("✓ Ripple control %s\n", formatOnOff(*p.RippleControl))
		applied++
	}
	if p.LiftOffMM != nil {
		if err := mouse.SetLiftOffDistance(*p.LiftOffMM); err != nil {
			return applied, err
		}
		fmt.Printf("✓ Lift-off distance %gmm\n", *p.LiftOffMM)
		applied++
	}
	if p.DebounceMs != nil {
		if err := mouse.SetDebounce(*p.DebounceMs); err != nil {
			return applied, err
		}
		fmt.Printf("✓ Debounce %dms\n", *p.DebounceMs)
		applied++
	}

	return applied, nil
}
