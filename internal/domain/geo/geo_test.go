package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	p := Point{Longitude: 77.5946, Latitude: 12.9716}
	if d := DistanceMeters(p, p); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceMeters_OneDegreeLatitude(t *testing.T) {
	d := DistanceMeters(Point{Longitude: 0, Latitude: 0}, Point{Longitude: 0, Latitude: 1})
	want := 111195.0
	if math.Abs(d-want)/want > 0.01 {
		t.Fatalf("expected ~%f, got %f", want, d)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := Point{Longitude: 72.8777, Latitude: 19.0760}
	b := Point{Longitude: 77.2090, Latitude: 28.6139}
	if math.Abs(DistanceMeters(a, b)-DistanceMeters(b, a)) > 1e-6 {
		t.Fatalf("expected symmetric distance")
	}
	// Mumbai to Delhi is roughly 1150 km.
	if d := DistanceMeters(a, b); d < 1100e3 || d > 1200e3 {
		t.Fatalf("unexpected Mumbai-Delhi distance: %f", d)
	}
}

func TestWithin(t *testing.T) {
	origin := Point{}
	near := Point{Longitude: 0.01, Latitude: 0}
	if !Within(origin, near, 25) {
		t.Fatalf("expected point ~1.1km away to be within 25km")
	}
	if Within(origin, near, 1) {
		t.Fatalf("expected point ~1.1km away to be outside 1km")
	}
	if Within(origin, origin, 0) {
		t.Fatalf("zero radius never matches")
	}
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	center := Point{Longitude: 77.5946, Latitude: 12.9716}
	box := BoundingBox(center, 25)

	if !box.Contains(center) {
		t.Fatalf("box must contain its center")
	}

	edges := []Point{
		{Longitude: center.Longitude, Latitude: center.Latitude + 0.22},
		{Longitude: center.Longitude, Latitude: center.Latitude - 0.22},
		{Longitude: center.Longitude + 0.22, Latitude: center.Latitude},
	}
	for _, p := range edges {
		if Within(center, p, 25) && !box.Contains(p) {
			t.Fatalf("box misses in-radius point %+v", p)
		}
	}

	far := Point{Longitude: center.Longitude + 1, Latitude: center.Latitude}
	if box.Contains(far) {
		t.Fatalf("box should not contain a point ~108km away")
	}
}

func TestBoundingBox_Antimeridian(t *testing.T) {
	box := BoundingBox(Point{Longitude: 179.99, Latitude: 0}, 50)
	if box.MinLongitude != -180 || box.MaxLongitude != 180 {
		t.Fatalf("expected full longitude band, got %+v", box)
	}
}

func TestPointValid(t *testing.T) {
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{-180, -90}, true},
		{Point{180.1, 0}, false},
		{Point{0, 90.5}, false},
		{Point{math.NaN(), 0}, false},
	}
	for _, c := range cases {
		if got := c.p.Valid(); got != c.want {
			t.Fatalf("Valid(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}
