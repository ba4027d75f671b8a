// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"phi-scan/internal/detector"
	"phi-scan/internal/help"
	"phi-scan/internal/validators/address"
	"phi-scan/internal/validators/dob"
	"phi-scan/internal/validators/email"
	"phi-scan/internal/validators/ipaddress"
	"phi-scan/internal/validators/labeled"
	"phi-scan/internal/validators/personname"
	"phi-scan/internal/validators/phone"
	"phi-scan/internal/validators/ssn"
	"phi-scan/internal/validators/url"
)

// CheckNames lists every check in detection order. Report findings follow
// this order, so it must not be sorted.
var CheckNames = []string{
	"SSN",
	"PHONE",
	"EMAIL",
	"MRN",
	"ACCOUNT_NUMBER",
	"DATE_OF_BIRTH",
	"LICENSE_NUMBER",
	"DEVICE_ID",
	"IP_ADDRESS",
	"WEB_URL",
	"ADDRESS",
	"PERSON_NAME",
}

// validator is what every check provides: detection plus help content
type validator interface {
	detector.Validator
	help.Provider
}

func newValidator(name string) validator {
	switch name {
	case "SSN":
		return ssn.NewValidator()
	case "PHONE":
		return phone.NewValidator()
	case "EMAIL":
		return email.NewValidator()
	case "MRN":
		return labeled.NewMRNValidator()
	case "ACCOUNT_NUMBER":
		return labeled.NewAccountValidator()
	case "DATE_OF_BIRTH":
		return dob.NewValidator()
	case "LICENSE_NUMBER":
		return labeled.NewLicenseValidator()
	case "DEVICE_ID":
		return labeled.NewDeviceValidator()
	case "IP_ADDRESS":
		return ipaddress.NewValidator()
	case "WEB_URL":
		return url.NewValidator()
	case "ADDRESS":
		return address.NewValidator()
	case "PERSON_NAME":
		return personname.NewValidator()
	}
	return nil
}

// BuildValidatorSet constructs the enabled validators in detection order
func BuildValidatorSet(enabledChecks map[string]bool) []detector.Validator {
	result := make([]detector.Validator, 0, len(CheckNames))
	for _, name := range CheckNames {
		if enabledChecks[name] {
			result = append(result, newValidator(name))
		}
	}
	return result
}

// RegisterHelp adds every check to a help system
func RegisterHelp(system *help.System) {
	for _, name := range CheckNames {
		system.RegisterProvider(newValidator(name))
	}
}
