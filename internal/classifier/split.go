package classifier

import (
	"math/rand"
	"sort"
)

// stratifiedSplit partitions row indices into train and holdout sets,
// drawing the holdout share from each class separately so label
// proportions survive the split. Classes too small to spare a holdout
// row go entirely to the training side.
func stratifiedSplit(y []int, classes int, holdout float64, rng *rand.Rand) (train, test []int) {
	byClass := make([][]int, classes)
	for i, cls := range y {
		byClass[cls] = append(byClass[cls], i)
	}

	for _, members := range byClass {
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		nTest := int(float64(len(members))*holdout + 0.5)
		if nTest >= len(members) {
			nTest = len(members) - 1
		}
		if nTest < 0 {
			nTest = 0
		}
		test = append(test, members[:nTest]...)
		train = append(train, members[nTest:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test
}
