package cpudetect

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarDotProduct(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{4, 3, 2, 1}
	require.Equal(t, float32(1*4+2*3+3*2+4*1), scalarDotProduct(a, b))
}

func TestScalarDotProductEmpty(t *testing.T) {
	require.Equal(t, float32(0), scalarDotProduct(nil, nil))
}

func TestScalarDotProductUnequalLength(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{1, 1}
	require.Equal(t, float32(3), scalarDotProduct(a, b))
}

func TestResolveReturnsWorkingKernel(t *testing.T) {
	k := Resolve()
	require.NotNil(t, k.DotProduct)
	require.NotEmpty(t, k.Name)
	require.NotEmpty(t, k.ISA)

	a := []float32{1, 1, 1}
	b := []float32{2, 2, 2}
	require.Equal(t, float32(6), k.DotProduct(a, b))
}

func TestResolveIsIdempotent(t *testing.T) {
	k1 := Resolve()
	k2 := Resolve()
	require.Equal(t, k1.Name, k2.Name)
	require.Equal(t, k1.ISA, k2.ISA)
}

func TestResolveConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]Kernel, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Resolve()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		require.Equal(t, results[0].Name, results[i].Name)
		require.Equal(t, results[0].ISA, results[i].ISA)
	}
}
