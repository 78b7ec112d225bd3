package decay

import (
	"math/bits"

	"orboracle/pkg/fixed"
)

// pow2Neg[k] is WAD * 2^-k, k = 0..60.
var pow2Neg = [61]uint64{
	1_000_000_000_000_000_000, 500_000_000_000_000_000, 250_000_000_000_000_000, 125_000_000_000_000_000,
	62_500_000_000_000_000, 31_250_000_000_000_000, 15_625_000_000_000_000, 7_812_500_000_000_000,
	3_906_250_000_000_000, 1_953_125_000_000_000, 976_562_500_000_000, 488_281_250_000_000,
	244_140_625_000_000, 122_070_312_500_000, 61_035_156_250_000, 30_517_578_125_000,
	15_258_789_062_500, 7_629_394_531_250, 3_814_697_265_625, 1_907_348_632_812,
	953_674_316_406, 476_837_158_203, 238_418_579_102, 119_209_289_551,
	59_604_644_775, 29_802_322_388, 14_901_161_194, 7_450_580_597,
	3_725_290_298, 1_862_645_149, 931_322_574, 465_661_287,
	232_830_643, 116_415_322, 58_207_661, 29_103_831,
	14_551_915, 7_275_958, 3_637_979, 1_818_989,
	909_495, 454_747, 227_373, 113_687,
	56_843, 28_422, 14_211, 7_105,
	3_553, 1_776, 888, 444,
	222, 111, 56, 28,
	14, 7, 3, 2,
	1,
}

// Factor returns 0.5^(elapsed/halfLife) scaled by WAD.
//
// Between integer exponents the curve is interpolated linearly over pow2Neg.
// Beyond 61 half lives the factor bottoms out at 1. A zero half life yields 0:
// the previous weight is discarded.
func Factor(elapsed, halfLife uint64) uint64 {
	if halfLife == 0 {
		return 0
	}

	if elapsed == 0 {
		return fixed.WAD
	}

	const limit = 61 * fixed.Denominator

	hi, lo := bits.Mul64(elapsed, fixed.Denominator)
	if hi >= halfLife {
		return 1
	}

	scaled, _ := bits.Div64(hi, lo, halfLife)
	if scaled >= limit {
		return 1
	}

	k := scaled / fixed.Denominator
	frac := scaled % fixed.Denominator

	upper := pow2Neg[k]
	if frac == 0 {
		return upper
	}

	var lower uint64
	if k < 60 {
		lower = pow2Neg[k+1]
	}

	dh, dl := bits.Mul64(upper-lower, frac)
	step, _ := bits.Div64(dh, dl, fixed.Denominator)
	return upper - step
}
