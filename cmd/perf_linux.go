/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
//go:build linux

package cmd

import (
	perf "github.com/hodgesds/perf-utils"
	"github.com/pkg/errors"
)

/*
measurePerf runs fn under hardware counters, once counting last level cache
misses and once counting retired instructions. When the counters cannot be
opened fn still runs once and the counter error is returned beside its
result.
*/
func measurePerf(fn func() error) (counters *PerfCounters, perfErr, runErr error) {
	var ran bool
	run := func() error {
		ran = true
		runErr = fn()
		return runErr
	}
	misses, err := perf.CacheMiss(run)
	if err != nil {
		if !ran {
			runErr = fn()
		}
		return nil, errors.Wrap(err, "counting cache misses"), runErr
	}
	if runErr != nil {
		return nil, nil, runErr
	}
	counters = &PerfCounters{
		CacheMisses: misses.Value,
		TimeEnabled: misses.TimeEnabled,
		TimeRunning: misses.TimeRunning,
	}
	instructions, err := perf.CPUInstructions(fn)
	if err != nil {
		return counters, errors.Wrap(err, "counting instructions"), nil
	}
	counters.Instructions = instructions.Value
	return counters, nil, nil
}
