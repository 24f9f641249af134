/* Copyright (c) 2018 Salesforce
 * All rights reserved.
 * Licensed under the BSD 3-Clause license.
 * For full license text, see LICENSE.txt file in the repo root  or https://opensource.org/licenses/BSD-3-Clause
 */

// Package requestmetrics reports a timing and a counter to statsd each time
// an HTTP request finishes.
//
// Metrics are named after the handler that served the request:
//
//	<prefix>.timers[.<hostname>].<package>.<Type>.<METHOD>.<STATUS>
//	<prefix>.counters[.<hostname>].<package>.<Type>.<METHOD>.<STATUS>
//
// For example, a GET served by a *widgets.WidgetHandler that answered 200
// in 12.5ms, with the default prefix and hostname reporting disabled, emits
//
//	sprockets.timers.widgets.WidgetHandler.GET.200   12.5 (ms)
//	sprockets.counters.widgets.WidgetHandler.GET.200 +1
//
// The prefix defaults to STATSD_PREFIX, or "sprockets". The local hostname
// is included unless STATSD_USE_HOSTNAME is false. Both can be overridden per
// Reporter, also after construction; overrides are read when a request
// finishes.
//
// The hostname is spliced in as returned by os.Hostname. A fully qualified
// name such as web1.example.com therefore adds three segments, not one; use
// WithHostnameDots("_") to report it as web1_example_com instead.
//
// Reporting happens in a completion Hook. Hooks compose like HTTP
// middleware, and the reporter always hands off to the next hook, so other
// behaviors attached to request completion keep running.
package requestmetrics
