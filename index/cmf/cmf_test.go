package cmf

import "testing"

func TestWeightFavorsNearLegWhenTargetAtOrBeforeNear(t *testing.T) {
	now := int64(0)
	w := weight(1, now+10*dayMs, now+40*dayMs, now)
	if w != 1 {
		t.Fatalf("expected weight 1 when target is before the near leg, got %v", w)
	}
}

func TestWeightFavorsFarLegWhenTargetAtOrAfterFar(t *testing.T) {
	now := int64(0)
	w := weight(50, now+10*dayMs, now+40*dayMs, now)
	if w != 0 {
		t.Fatalf("expected weight 0 when target is beyond the far leg, got %v", w)
	}
}

func TestWeightInterpolatesLinearlyBetweenLegs(t *testing.T) {
	now := int64(0)
	// near at 10d, far at 40d, target at 25d (midpoint) -> weight 0.5
	w := weight(25, now+10*dayMs, now+40*dayMs, now)
	if diff := w - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected weight ~0.5 at the bracket midpoint, got %v", w)
	}
}

func TestBuildInterpolatesPriceBetweenLegs(t *testing.T) {
	now := int64(0)
	c := CmfIndex{Symbol: "WTI_CMF", Expo: -2, TargetDays: 25}
	in := CmfInputs{
		Near:  FuturesLeg{Price: 80, ExpiryMs: now + 10*dayMs},
		Far:   FuturesLeg{Price: 90, ExpiryMs: now + 40*dayMs},
		NowMs: now,
	}

	mark := c.Build(in)

	if mark.Symbol != "WTI_CMF" || mark.Source != "cmf" || mark.Expo != -2 {
		t.Fatalf("unexpected mark metadata: %+v", mark)
	}
	if diff := mark.Price - 85; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected midpoint price ~85, got %v", mark.Price)
	}
}

func TestBuildCollapsesToNearLegWhenTargetBeforeBracket(t *testing.T) {
	now := int64(0)
	c := CmfIndex{Symbol: "WTI_CMF", TargetDays: 1}
	in := CmfInputs{
		Near:  FuturesLeg{Price: 80, ExpiryMs: now + 10*dayMs},
		Far:   FuturesLeg{Price: 90, ExpiryMs: now + 40*dayMs},
		NowMs: now,
	}

	mark := c.Build(in)

	if diff := mark.Price - 80; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected near leg price ~80, got %v", mark.Price)
	}
}
