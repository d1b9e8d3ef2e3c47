// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package acmodel

// Model identifiers, numbered as in the web remote's model selector.
const (
	ModelTadiran = iota
	ModelCarrierAC64
	ModelCarrierAC84
	ModelCarrierAC128
	ModelDaikin
	ModelDaikin2
	ModelDaikin216
	ModelDaikin64
	ModelDaikin128
	ModelDaikin152
	ModelDaikin160
	ModelDaikin176
	ModelDaikin200
	ModelDaikin312
	ModelFujitsuAC
	ModelGree
	ModelHitachiAC
	ModelHitachiAC1
	ModelHitachiAC2
	ModelHitachiAC3
	ModelHitachiAC4
	ModelHitachiAC424
	ModelKelvinator
	ModelMidea
	ModelMitsubishiAC
	ModelMitsubishi136
	ModelMitsubishi112
	ModelMitsubishiHeavy88
	ModelMitsubishiHeavy152
	ModelPanasonicAC
	ModelPanasonicAC32
	ModelSamsungAC
	ModelSharpAC
	ModelTcl112AC
	ModelToshibaAC
	ModelTrotec
	ModelVestelAC
	ModelWhirlpoolAC

	modelCount
)

var modelNames = [modelCount]string{
	"Tadiran",
	"Carrier AC64",
	"Carrier AC84",
	"Carrier AC128",
	"Daikin",
	"Daikin2",
	"Daikin216",
	"Daikin64",
	"Daikin128",
	"Daikin152",
	"Daikin160",
	"Daikin176",
	"Daikin200",
	"Daikin312",
	"Fujitsu AC",
	"Gree",
	"Hitachi AC",
	"Hitachi AC1",
	"Hitachi AC2",
	"Hitachi AC3",
	"Hitachi AC4",
	"Hitachi AC424",
	"Kelvinator",
	"Midea",
	"Mitsubishi AC",
	"Mitsubishi 136",
	"Mitsubishi 112",
	"Mitsubishi Heavy 88",
	"Mitsubishi Heavy 152",
	"Panasonic AC",
	"Panasonic AC32",
	"Samsung AC",
	"Sharp AC",
	"TCL 112 AC",
	"Toshiba AC",
	"Trotec",
	"Vestel AC",
	"Whirlpool AC",
}

// unsupported is the stub encoder for brands without an implementation.
type unsupported struct{}

func (unsupported) Encode(cmd Command) (Signal, error) {
	return Signal{}, ErrUnsupportedModel
}

// Unsupported returns a stub encoder that always fails with ErrUnsupportedModel.
func Unsupported() Encoder {
	return unsupported{}
}

// Default returns a registry with the Tadiran encoder and a stub for every
// other known brand.
func Default() *Registry {
	r := NewRegistry()
	r.Register(ModelTadiran, modelNames[ModelTadiran], NewTadiranEncoder())
	for id := ModelTadiran + 1; id < modelCount; id++ {
		r.Register(id, modelNames[id], Unsupported())
	}
	return r
}
