package ste_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/ste/pkg/bls"
	"github.com/luxfi/ste/pkg/ste"
)

var _ = Describe("Silent threshold encryption", func() {
	var c *committee

	BeforeEach(func() {
		var err error
		c, err = newCommittee(1, 8, 3)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("honest decryption", func() {
		It("recovers enc_key when every party contributes", func() {
			ct, err := ste.Encrypt(c.ak, c.t, c.params, newSeededReader(100))
			Expect(err).NotTo(HaveOccurred())

			sel := c.fullSelector()
			partials := c.partialsFor(sel, ct)

			recovered, err := ste.AggDec(partials, ct, sel, c.ak, c.lp)
			Expect(err).NotTo(HaveOccurred())
			Expect(recovered.Bytes()).To(Equal(ct.EncKey.Bytes()))
		})

		It("recovers enc_key from any valid subset of size t+1", func() {
			ct, err := ste.Encrypt(c.ak, c.t, c.params, newSeededReader(101))
			Expect(err).NotTo(HaveOccurred())

			sel := c.thresholdSelector()
			Expect(sel.Count()).To(Equal(int(c.t) + 1))
			partials := c.partialsFor(sel, ct)

			recovered, err := ste.AggDec(partials, ct, sel, c.ak, c.lp)
			Expect(err).NotTo(HaveOccurred())
			Expect(recovered.Bytes()).To(Equal(ct.EncKey.Bytes()))
		})

		It("recovers the same key for two different valid subsets", func() {
			ct, err := ste.Encrypt(c.ak, c.t, c.params, newSeededReader(102))
			Expect(err).NotTo(HaveOccurred())

			selA := c.thresholdSelector()
			selB := make([]bool, c.n)
			selB[0] = true
			// last t parties instead of the first t.
			for i := c.n - c.t; i < c.n; i++ {
				selB[i] = true
			}

			recA, err := ste.AggDec(c.partialsFor(selA, ct), ct, selA, c.ak, c.lp)
			Expect(err).NotTo(HaveOccurred())
			recB, err := ste.AggDec(c.partialsFor(selB, ct), ct, selB, c.ak, c.lp)
			Expect(err).NotTo(HaveOccurred())

			Expect(recA.Bytes()).To(Equal(recB.Bytes()))
			Expect(recA.Bytes()).To(Equal(ct.EncKey.Bytes()))
		})
	})

	Describe("tampering", func() {
		It("a single tampered partial breaks the recovered key", func() {
			ct, err := ste.Encrypt(c.ak, c.t, c.params, newSeededReader(103))
			Expect(err).NotTo(HaveOccurred())

			sel := c.fullSelector()
			partials := c.partialsFor(sel, ct)

			victim := sel.Selected()[1]
			tampered := partials[victim]
			tampered.Sigma = bls.ScalarMulG2(tampered.Sigma, scalarFromUint64(7))
			partials[victim] = tampered

			recovered, err := ste.AggDec(partials, ct, sel, c.ak, c.lp)
			Expect(err).NotTo(HaveOccurred())
			Expect(recovered.Bytes()).NotTo(Equal(ct.EncKey.Bytes()))
		})
	})

	Describe("selector validation", func() {
		It("rejects a selector that omits the dummy party", func() {
			ct, err := ste.Encrypt(c.ak, c.t, c.params, newSeededReader(104))
			Expect(err).NotTo(HaveOccurred())

			sel := c.thresholdSelector()
			sel[0] = false

			_, err = ste.AggDec(c.partialsFor(c.fullSelector(), ct), ct, sel, c.ak, c.lp)
			Expect(err).To(HaveOccurred())
			var selErr *ste.SelectorInvalidError
			Expect(err).To(BeAssignableToTypeOf(selErr))
		})

		It("rejects a selector below the threshold", func() {
			ct, err := ste.Encrypt(c.ak, c.t, c.params, newSeededReader(105))
			Expect(err).NotTo(HaveOccurred())

			sel := make([]bool, c.n)
			sel[0] = true

			_, err = ste.AggDec(c.partialsFor(c.fullSelector(), ct), ct, sel, c.ak, c.lp)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("independence across encryptions", func() {
		It("produces distinct ciphertexts and gamma points for fresh randomness", func() {
			ctA, err := ste.Encrypt(c.ak, c.t, c.params, newSeededReader(200))
			Expect(err).NotTo(HaveOccurred())
			ctB, err := ste.Encrypt(c.ak, c.t, c.params, newSeededReader(201))
			Expect(err).NotTo(HaveOccurred())

			Expect(ctA.GammaG2.Bytes()).NotTo(Equal(ctB.GammaG2.Bytes()))
			Expect(ctA.X.Bytes()).NotTo(Equal(ctB.X.Bytes()))
			Expect(ctA.EncKey.Bytes()).NotTo(Equal(ctB.EncKey.Bytes()))
		})
	})

	Describe("secret key zeroization", func() {
		It("overwrites the backing scalar after Destroy", func() {
			sk, err := ste.NewSecretKey(newSeededReader(300))
			Expect(err).NotTo(HaveOccurred())

			// A zero secret key can no longer produce a usable partial
			// decryption: derive a ciphertext first, then destroy.
			ct, err := ste.Encrypt(c.ak, c.t, c.params, newSeededReader(301))
			Expect(err).NotTo(HaveOccurred())

			before := ste.PartialDecrypt(sk, ct)
			sk.Destroy()
			after := ste.PartialDecrypt(sk, ct)

			Expect(after.Sigma.Bytes()).NotTo(Equal(before.Sigma.Bytes()))

			var identity bls.G2
			Expect(after.Sigma.Bytes()).To(Equal(identity.Bytes()))
		})
	})
})
