package console

// Inline pages for the shop. The TV screen shows big order numbers for
// customers; the barista console lists in-progress orders with a Done
// button that texts the customer. Both refresh from the SSE stream and
// poll as a fallback.

const ordersTVHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Boba Orders - Now Serving</title>
  <style>
    :root { color-scheme: light dark; }
    body { margin: 0; font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial; background: #111; color:#fff; }
    header { padding: 16px 24px; background: #222; border-bottom: 1px solid #333; }
    h1 { margin: 0; font-size: 24px; }
    .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(180px, 1fr)); gap: 16px; padding: 24px; }
    .card { background: #1b1b1b; border: 1px solid #333; border-radius: 16px; padding: 24px; text-align: center; box-shadow: 0 1px 8px rgba(0,0,0,0.25); }
    .ord { font-size: 56px; letter-spacing: 2px; font-weight: 800; }
    .muted { color:#aaa; font-size:12px; margin-top: 6px; }
    .empty { padding: 80px; text-align:center; color:#777; }
  </style>
</head>
<body>
  <header><h1>&#129379; Now Preparing</h1></header>
  <main>
    <div id="grid" class="grid"></div>
    <div id="empty" class="empty" style="display:none;">No active orders yet.</div>
  </main>
  <script>
    const grid = document.getElementById('grid');
    const empty = document.getElementById('empty');

    function renderList(list){
      grid.innerHTML = '';
      if(!list || list.length === 0){ empty.style.display = 'block'; return; }
      empty.style.display = 'none';
      for(const o of list){
        const card = document.createElement('div');
        card.className = 'card';
        card.innerHTML = '<div class="ord">' + (o.order_number || '----') + '</div>' +
                         '<div class="muted">' + (o.status || '') + '</div>';
        grid.appendChild(card);
      }
    }

    async function loadInitial() {
      const res = await fetch('/orders/in_progress.json');
      renderList(await res.json());
    }

    function startSSE() {
      const es = new EventSource('/orders/events');
      es.onmessage = (ev) => {
        try {
          const msg = JSON.parse(ev.data);
          if (msg.type === 'order_created' || msg.type === 'order_status_changed') {
            loadInitial();
          }
        } catch(e) { console.warn('bad event', e); }
      };
    }

    loadInitial().then(startSSE);
    setInterval(loadInitial, 15000);
  </script>
</body>
</html>`

const baristaHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Barista Console</title>
  <style>
    :root{ color-scheme: light dark; }
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial; margin:24px; }
    h1 { margin: 0 0 12px; }
    table { width: 100%; border-collapse: collapse; }
    th, td { border-bottom: 1px solid #ddd; padding: 10px; text-align: left; }
    tr:hover { background: rgba(0,0,0,0.04); }
    button { padding: 6px 12px; border-radius: 8px; border: 1px solid #999; cursor: pointer; }
    .muted { color:#777; font-size: 12px; }
  </style>
</head>
<body>
  <h1>&#129379; Barista Console</h1>
  <p class="muted">Mark orders as done to text the customer that it&#8217;s ready for pickup.</p>

  <table id="tbl">
    <thead><tr><th>Order #</th><th>Phone</th><th>Status</th><th>Action</th></tr></thead>
    <tbody></tbody>
  </table>

  <script>
    const tbody = document.querySelector('#tbl tbody');

    async function load() {
      const res = await fetch('/orders/in_progress.json');
      const list = await res.json();
      tbody.innerHTML = '';
      for (const o of list) {
        const tr = document.createElement('tr');
        tr.innerHTML =
          '<td><strong>' + o.order_number + '</strong></td>' +
          '<td data-phone>-</td>' +
          '<td>' + (o.status || '') + '</td>' +
          '<td><button data-done="' + o.order_number + '">Done</button></td>';
        tbody.appendChild(tr);

        fetch('/api/orders/phone/' + o.order_number).then(r => r.json()).then(d => {
          tr.querySelector('[data-phone]').textContent = d.phone || '-';
        });
      }
    }

    tbody.addEventListener('click', async (e) => {
      const btn = e.target.closest('button[data-done]');
      if (!btn) return;
      const order = btn.getAttribute('data-done');
      btn.disabled = true; btn.textContent = 'Sending...';
      try {
        const res = await fetch('/api/orders/' + order + '/done', { method: 'POST' });
        if (!res.ok) throw new Error('Failed');
        btn.textContent = 'Sent';
        setTimeout(load, 600);
      } catch (e) {
        btn.textContent = 'Error';
      }
    });

    function startSSE() {
      const es = new EventSource('/orders/events');
      es.onmessage = (ev) => {
        try {
          const msg = JSON.parse(ev.data);
          if (msg.type === 'order_created' || msg.type === 'order_status_changed') {
            load();
          }
        } catch(e) { /* ignore */ }
      };
    }

    load(); startSSE();
    setInterval(load, 15000);
  </script>
</body>
</html>`
