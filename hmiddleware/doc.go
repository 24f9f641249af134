/* Copyright (c) 2018 Salesforce
 * All rights reserved.
 * Licensed under the BSD 3-Clause license.
 * For full license text, see LICENSE.txt file in the repo root  or https://opensource.org/licenses/BSD-3-Clause
 */

// Package hmiddleware contains Chi style (function that takes and returns a
// HTTP handler) middleware and request completion hooks that sit next to
// the request metrics reporter in hmiddleware/requestmetrics.
package hmiddleware
