package ste_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSTE(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Silent Threshold Encryption Suite")
}
