// Package tcattr encodes and decodes the DSCD netlink attribute set: the
// TCA_DSCD_* control attributes used to configure the qdisc via "tc
// qdisc change", and the struct tc_dscd_xstats payload returned by
// "tc -s qdisc show". Both wire formats come straight from
// include/uapi/linux/pkt_sched_dscd.h; this package is the Go-side
// mirror of that header plus the marshal/unmarshal logic netlink.h
// macros (nla_put_u64_64bit, etc.) provide for free in C.
package tcattr

import (
	"fmt"

	"github.com/mdlayher/netlink"
)

// Attribute IDs for the control TLVs, in enum order from
// pkt_sched_dscd.h's anonymous TCA_DSCD_* enum.
const (
	AttrUnspec uint16 = iota
	AttrPad
	AttrLimit
	AttrRate
	AttrCreditHalfLife
	AttrRateMemory
	AttrTD
	AttrTQ
)

// Config is the wire representation of the TCA_DSCD_* control
// attributes sent on a qdisc add/change request. A nil field means the
// attribute was absent from the request, matching dscd's sparse-change
// semantics. Limit is the one attribute narrower than the rest: the
// kernel policy table declares it NLA_U32 while every other attribute
// here is NLA_U64.
type Config struct {
	Limit          *uint32
	Rate           *uint64
	CreditHalfLife *uint64
	RateMemory     *uint64
	TD             *uint64
	TQ             *uint64
}

// EncodeConfig marshals cfg into a netlink attribute byte stream
// suitable for RTM_NEWQDISC/RTM_CHANGEQDISC's TCA_OPTIONS nested
// attribute. AttrPad is never emitted; mdlayher/netlink's encoder
// handles 4-byte attribute alignment itself.
func EncodeConfig(cfg Config) ([]byte, error) {
	ae := netlink.NewAttributeEncoder()
	if cfg.Limit != nil {
		ae.Uint32(AttrLimit, *cfg.Limit)
	}
	if cfg.Rate != nil {
		ae.Uint64(AttrRate, *cfg.Rate)
	}
	if cfg.CreditHalfLife != nil {
		ae.Uint64(AttrCreditHalfLife, *cfg.CreditHalfLife)
	}
	if cfg.RateMemory != nil {
		ae.Uint64(AttrRateMemory, *cfg.RateMemory)
	}
	if cfg.TD != nil {
		ae.Uint64(AttrTD, *cfg.TD)
	}
	if cfg.TQ != nil {
		ae.Uint64(AttrTQ, *cfg.TQ)
	}
	return ae.Encode()
}

// DecodeConfig unmarshals a TCA_OPTIONS attribute stream into a Config.
// Unrecognized attribute IDs are ignored, matching the kernel parser's
// tolerance for attributes it doesn't know about (future TCA_DSCD_MAX
// growth).
func DecodeConfig(b []byte) (Config, error) {
	ad, err := netlink.NewAttributeDecoder(b)
	if err != nil {
		return Config{}, fmt.Errorf("tcattr: decode config: %w", err)
	}
	var cfg Config
	for ad.Next() {
		switch ad.Type() {
		case AttrLimit:
			v := ad.Uint32()
			cfg.Limit = &v
		case AttrRate:
			v := ad.Uint64()
			cfg.Rate = &v
		case AttrCreditHalfLife:
			v := ad.Uint64()
			cfg.CreditHalfLife = &v
		case AttrRateMemory:
			v := ad.Uint64()
			cfg.RateMemory = &v
		case AttrTD:
			v := ad.Uint64()
			cfg.TD = &v
		case AttrTQ:
			v := ad.Uint64()
			cfg.TQ = &v
		}
	}
	if err := ad.Err(); err != nil {
		return Config{}, fmt.Errorf("tcattr: decode config: %w", err)
	}
	return cfg, nil
}
