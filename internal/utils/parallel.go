package utils

import (
	"sync"
)

// ParallelTask represents a generic task that can be executed in parallel.
type ParallelTask func() (interface{}, error)

// RunParallelTasks executes multiple tasks in parallel and returns their
// results and errors in task order.
func RunParallelTasks(tasks []ParallelTask) ([]interface{}, []error) {
	var wg sync.WaitGroup
	results := make([]interface{}, len(tasks))
	errors := make([]error, len(tasks))

	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(index int, t ParallelTask) {
			defer wg.Done()
			result, err := t()
			results[index] = result
			errors[index] = err
		}(i, task)
	}

	wg.Wait()
	return results, errors
}
