package astro

// moonTerm is one periodic term of the lunar longitude series:
// coeff · sin(d·D + m·M + mp·M' + f·F).
type moonTerm struct {
	d, m, mp, f int
	coeff       float64
}

// Main periodic terms of the Moon's longitude (degrees), largest first.
var moonLongitudeTerms = []moonTerm{
	{0, 0, 1, 0, 6.288774},
	{2, 0, -1, 0, 1.274027},
	{2, 0, 0, 0, 0.658314},
	{0, 0, 2, 0, 0.213618},
	{0, 1, 0, 0, -0.185116},
	{0, 0, 0, 2, -0.114332},
	{2, 0, -2, 0, 0.058793},
	{2, -1, -1, 0, 0.057066},
	{2, 0, 1, 0, 0.053322},
	{2, -1, 0, 0, 0.045758},
	{0, 1, -1, 0, -0.040923},
	{1, 0, 0, 0, -0.034720},
	{0, 1, 1, 0, -0.030383},
	{2, 0, 0, -2, 0.015327},
	{0, 0, 1, 2, -0.012528},
	{0, 0, 1, -2, 0.010980},
	{4, 0, -1, 0, 0.010675},
	{0, 0, 3, 0, 0.010034},
	{4, 0, -2, 0, 0.008548},
	{2, 1, -1, 0, -0.007888},
	{2, 1, 0, 0, -0.006766},
	{1, 0, -1, 0, -0.005163},
}

// MoonLongitude returns the tropical ecliptic longitude of the Moon in
// degrees, from the leading terms of the ELP-2000 series. Accuracy is
// roughly 0.01-0.02°.
func MoonLongitude(j JD) float64 {
	T := j.Centuries(J2000)

	Lp := 218.3164477 + 481267.88123421*T - 0.0015786*T*T
	D := 297.8501921 + 445267.1114034*T - 0.0018819*T*T
	M := 357.5291092 + 35999.0502909*T - 0.0001536*T*T
	Mp := 134.9633964 + 477198.8675055*T + 0.0087414*T*T
	F := 93.2720950 + 483202.0175233*T - 0.0036539*T*T

	// Eccentricity of Earth's orbit scales every term containing M.
	E := 1 - 0.002516*T - 0.0000074*T*T

	sum := 0.0
	for _, term := range moonLongitudeTerms {
		arg := float64(term.d)*D + float64(term.m)*M + float64(term.mp)*Mp + float64(term.f)*F
		c := term.coeff
		switch term.m {
		case 1, -1:
			c *= E
		case 2, -2:
			c *= E * E
		}
		sum += c * sinD(arg)
	}

	return Normalize360(Lp + sum)
}

// SynodicRate is the mean daily gain of the Moon over the Sun in degrees.
const SynodicRate = 12.19075
