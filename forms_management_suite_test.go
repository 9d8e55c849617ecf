package main_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFormsManagement(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FormsManagement Suite")
}
